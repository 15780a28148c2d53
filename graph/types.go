package graph

// NodeType classifies graph nodes.
type NodeType string

const (
	// NodeDocument is the root artifact of an ingestion batch.
	NodeDocument NodeType = "DOCUMENT"
	// NodeSection is a structural section scoped within a document,
	// one per distinct file path.
	NodeSection NodeType = "SECTION"
	// NodeChunk is an embeddable chunk derived from a section.
	NodeChunk NodeType = "CHUNK"
	// NodeEntity is a canonical named entity resolved from chunks.
	// Reserved for future extraction, not populated by this engine.
	NodeEntity NodeType = "ENTITY"
	// NodeTopic is an embedding-derived topic or cluster centroid.
	// Reserved for future extraction, not populated by this engine.
	NodeTopic NodeType = "TOPIC"
	// NodeQuery is a captured retrieval request.
	// Reserved for future extraction, not populated by this engine.
	NodeQuery NodeType = "QUERY"
)

// EdgeType classifies graph edges.
type EdgeType string

const (
	// EdgeHasSection is Document to Section containment.
	EdgeHasSection EdgeType = "HAS_SECTION"
	// EdgeHasChunk is Section to Chunk containment.
	EdgeHasChunk EdgeType = "HAS_CHUNK"
	// EdgeMentions is a chunk mention of an entity. Reserved, unused.
	EdgeMentions EdgeType = "MENTIONS"
	// EdgeSimilarTo is chunk-to-chunk semantic similarity. Undirected by
	// convention but stored as one directed record.
	EdgeSimilarTo EdgeType = "SIMILAR_TO"
	// EdgeBelongsTo is a chunk assignment to a topic cluster. Reserved, unused.
	EdgeBelongsTo EdgeType = "BELONGS_TO"
	// EdgeRetrieved is a query-to-chunk provenance edge. Reserved, unused.
	EdgeRetrieved EdgeType = "RETRIEVED"
)

// Node is one vertex of a synthesized graph.
type Node struct {
	Id          string
	Type        NodeType
	DisplayName string
	Summary     string
	SourceURI   string
	Metadata    map[string]string
}

// Edge is one directed record of a synthesized graph.
type Edge struct {
	Id       string
	Type     EdgeType
	From     string
	To       string
	Weight   float32
	Metadata map[string]string
}

// Graph holds the synthesized nodes and edges of one ingestion, with an
// adjacency list in edge insertion order. Traversals over the same graph
// are therefore deterministic.
type Graph struct {
	nodes     []*Node
	edges     []*Edge
	nodeByID  map[string]*Node
	adjacency map[string][]*Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeByID:  make(map[string]*Node),
		adjacency: make(map[string][]*Edge),
	}
}

// AddNode inserts a node. The first node with a given id wins; later
// duplicates are dropped.
func (g *Graph) AddNode(node *Node) {
	if _, exists := g.nodeByID[node.Id]; exists {
		return
	}
	g.nodes = append(g.nodes, node)
	g.nodeByID[node.Id] = node
}

// AddEdge inserts an edge and records it in the adjacency list of both
// endpoints.
func (g *Graph) AddEdge(edge *Edge) {
	g.edges = append(g.edges, edge)
	g.adjacency[edge.From] = append(g.adjacency[edge.From], edge)
	g.adjacency[edge.To] = append(g.adjacency[edge.To], edge)
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	return g.nodeByID[id]
}

// Nodes returns all nodes in synthesis order.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Edges returns all edges in synthesis order.
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Adjacent returns the edges touching a node, in insertion order.
func (g *Graph) Adjacent(id string) []*Edge {
	return g.adjacency[id]
}
