// Package bom contiene la lógica de grafo de la lista de materiales:
// adyacencia padre→componentes y detección de ciclos antes de confirmar
// una nueva arista.
package bom

// maxDepth limita el recorrido para cortar grafos degenerados sin recursión
// desbordada; ninguna BOM legítima se acerca a esta profundidad.
const maxDepth = 64

// Graph es la adyacencia padre→componentes de la empresa, indexada por ID de ítem.
type Graph map[string][]string

// AddEdge registra una arista padre→componente en la adyacencia.
func (g Graph) AddEdge(parentID, componentID string) {
	g[parentID] = append(g[parentID], componentID)
}

// WouldCycle indica si agregar la arista parentID→componentID cerraría un
// ciclo: es decir, si desde componentID ya se alcanza a parentID siguiendo
// las aristas existentes. Se invoca antes de persistir la línea BOM.
func (g Graph) WouldCycle(parentID, componentID string) bool {
	if parentID == componentID {
		return true
	}
	visited := make(map[string]bool)
	return g.reaches(componentID, parentID, visited, 0)
}

func (g Graph) reaches(from, target string, visited map[string]bool, depth int) bool {
	if depth >= maxDepth || visited[from] {
		return false
	}
	visited[from] = true
	for _, next := range g[from] {
		if next == target || g.reaches(next, target, visited, depth+1) {
			return true
		}
	}
	return false
}
