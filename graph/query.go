package graph

import "github.com/poiesic/memograph/core"

const (
	// DefaultNodeLimit caps slice and neighborhood node results when the
	// caller passes no limit.
	DefaultNodeLimit = 250
	// DefaultEdgeLimit caps edge results when the caller passes no limit.
	DefaultEdgeLimit = 500
)

// Filter restricts a query result by node and edge type. Empty slices
// mean "all types".
type Filter struct {
	NodeTypes []NodeType
	EdgeTypes []EdgeType
}

func (f Filter) allowsNode(t NodeType) bool {
	if len(f.NodeTypes) == 0 {
		return true
	}
	for _, allowed := range f.NodeTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

func (f Filter) allowsEdge(t EdgeType) bool {
	if len(f.EdgeTypes) == 0 {
		return true
	}
	for _, allowed := range f.EdgeTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// Meta describes a query result.
type Meta struct {
	IngestionId core.ID
	CenterId    string
	Depth       int
	NodeCount   int
	EdgeCount   int
}

// Result is the bounded, filtered view a query returns.
type Result struct {
	Nodes []*Node
	Edges []*Edge
	Meta  Meta
}

// EmptyResult builds the result of a query over a missing or empty
// ingestion. It echoes the request identifiers; it is not an error.
func EmptyResult(ingestionID core.ID, centerID string, depth int) *Result {
	return &Result{
		Nodes: []*Node{},
		Edges: []*Edge{},
		Meta:  Meta{IngestionId: ingestionID, CenterId: centerID, Depth: depth},
	}
}

// Slice returns a bounded, filtered view of a synthesized graph. Nodes are
// filtered by type in synthesis order and truncated to nodeLimit; edges are
// filtered by type, restricted to those touching at least one surviving
// node, and truncated to edgeLimit.
func Slice(g *Graph, ingestionID core.ID, filter Filter, nodeLimit, edgeLimit int) *Result {
	if nodeLimit <= 0 {
		nodeLimit = DefaultNodeLimit
	}
	if edgeLimit <= 0 {
		edgeLimit = DefaultEdgeLimit
	}

	result := EmptyResult(ingestionID, "", 0)

	surviving := make(map[string]bool)
	for _, node := range g.Nodes() {
		if !filter.allowsNode(node.Type) {
			continue
		}
		if len(result.Nodes) >= nodeLimit {
			break
		}
		result.Nodes = append(result.Nodes, node)
		surviving[node.Id] = true
	}

	for _, edge := range g.Edges() {
		if !filter.allowsEdge(edge.Type) {
			continue
		}
		if !surviving[edge.From] && !surviving[edge.To] {
			continue
		}
		if len(result.Edges) >= edgeLimit {
			break
		}
		result.Edges = append(result.Edges, edge)
	}

	result.Meta.NodeCount = len(result.Nodes)
	result.Meta.EdgeCount = len(result.Edges)
	return result
}

// Neighborhood performs a breadth-first traversal from a center node,
// bounded by depth, and returns the visited subgraph.
//
// Traversal ignores type filters: every node within the depth bound is
// visited once, in adjacency insertion order. Filters then shape the
// result: the center node is always included when it exists, other visited
// nodes must pass the node filter, and edges must connect two visited nodes
// and pass the edge filter. Node and edge lists are truncated to their
// limits.
func Neighborhood(g *Graph, ingestionID core.ID, centerID string, depth int, filter Filter, nodeLimit, edgeLimit int) *Result {
	if nodeLimit <= 0 {
		nodeLimit = DefaultNodeLimit
	}
	if edgeLimit <= 0 {
		edgeLimit = DefaultEdgeLimit
	}

	result := EmptyResult(ingestionID, centerID, depth)
	if depth < 0 {
		depth = 0
	}
	result.Meta.Depth = depth

	center := g.Node(centerID)
	if center == nil {
		return result
	}

	// BFS, visit-once, depth-bounded. Queue order follows adjacency
	// insertion order, which is deterministic given deterministic synthesis.
	type queued struct {
		id    string
		depth int
	}
	visited := map[string]bool{centerID: true}
	visitOrder := []string{centerID}
	queue := []queued{{id: centerID, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= depth {
			continue
		}
		for _, edge := range g.Adjacent(current.id) {
			next := edge.To
			if next == current.id {
				next = edge.From
			}
			if visited[next] {
				continue
			}
			if g.Node(next) == nil {
				continue
			}
			visited[next] = true
			visitOrder = append(visitOrder, next)
			queue = append(queue, queued{id: next, depth: current.depth + 1})
		}
	}

	for _, id := range visitOrder {
		node := g.Node(id)
		// The center is always part of its own neighborhood
		if id != centerID && !filter.allowsNode(node.Type) {
			continue
		}
		if len(result.Nodes) >= nodeLimit {
			break
		}
		result.Nodes = append(result.Nodes, node)
	}

	for _, edge := range g.Edges() {
		if !visited[edge.From] || !visited[edge.To] {
			continue
		}
		if !filter.allowsEdge(edge.Type) {
			continue
		}
		if len(result.Edges) >= edgeLimit {
			break
		}
		result.Edges = append(result.Edges, edge)
	}

	result.Meta.NodeCount = len(result.Nodes)
	result.Meta.EdgeCount = len(result.Edges)
	return result
}
