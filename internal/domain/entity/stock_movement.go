package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeReceive  = "receive"  // entrada
	MovementTypeShip     = "ship"     // salida
	MovementTypeTransfer = "transfer" // traslado entre ubicaciones (dos filas, mismo TransactionID)
	MovementTypeAdjust   = "adjust"   // ajuste; también consumo/producción de ensambles
	MovementTypeCount    = "count"    // conteo físico: registra el delta contra lo contado
)

// StockMovement representa un movimiento inmutable del libro de inventario.
// El libro es la fuente de verdad: reproducir los movimientos de un ítem desde
// cero debe regenerar sus cantidades por ubicación y por lote. Nunca se
// edita una fila; las correcciones se registran con un movimiento compensatorio.
type StockMovement struct {
	ID              string
	CompanyID       string
	TransactionID   string // agrupa filas de una misma operación (transfer, build, unbuild)
	ItemID          string
	Type            string
	Quantity        decimal.Decimal // positivo entrada, negativo salida
	FromLocationID  string
	ToLocationID    string
	LotID           string
	ReferenceNumber string // BUILD-xxx, UNBUILD-xxx, orden, nota de ajuste
	Notes           string
	CreatedAt       time.Time
	CreatedBy       string // UserID (actor)
}

// MovementWithBalance anota un movimiento con el saldo acumulado del ítem
// después de aplicarlo (calculado al leer el historial, no persistido).
type MovementWithBalance struct {
	StockMovement
	RunningBalance decimal.Decimal
}
