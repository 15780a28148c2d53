package graph

// NodeSchema describes one node type: its id prefix and the roles it plays.
type NodeSchema struct {
	Type        NodeType
	Prefix      string
	Description string
}

// EdgeSchema describes one edge type and the node types it may connect.
type EdgeSchema struct {
	Type        EdgeType
	Description string
	SourceTypes []NodeType
	TargetTypes []NodeType
}

// NodeSchemas declares every node type the engine understands.
var NodeSchemas = map[NodeType]NodeSchema{
	NodeDocument: {
		Type:        NodeDocument,
		Prefix:      "DOC",
		Description: "Represents the root artifact (file batch, mail thread, etc.)",
	},
	NodeSection: {
		Type:        NodeSection,
		Prefix:      "SEC",
		Description: "Semantic or structural section scoped within a document",
	},
	NodeChunk: {
		Type:        NodeChunk,
		Prefix:      "CHK",
		Description: "Embeddable chunk derived from a section",
	},
	NodeEntity: {
		Type:        NodeEntity,
		Prefix:      "ENT",
		Description: "Canonical named entity resolved from chunks",
	},
	NodeTopic: {
		Type:        NodeTopic,
		Prefix:      "TOP",
		Description: "Embedding-derived topic or cluster centroid",
	},
	NodeQuery: {
		Type:        NodeQuery,
		Prefix:      "QRY",
		Description: "Captured retrieval request issued by the user/agent",
	},
}

// EdgeSchemas declares every edge type the engine understands.
var EdgeSchemas = map[EdgeType]EdgeSchema{
	EdgeHasSection: {
		Type:        EdgeHasSection,
		Description: "Document to Section containment",
		SourceTypes: []NodeType{NodeDocument},
		TargetTypes: []NodeType{NodeSection},
	},
	EdgeHasChunk: {
		Type:        EdgeHasChunk,
		Description: "Section to Chunk containment",
		SourceTypes: []NodeType{NodeSection},
		TargetTypes: []NodeType{NodeChunk},
	},
	EdgeMentions: {
		Type:        EdgeMentions,
		Description: "Chunk mention of an Entity",
		SourceTypes: []NodeType{NodeChunk},
		TargetTypes: []NodeType{NodeEntity},
	},
	EdgeSimilarTo: {
		Type:        EdgeSimilarTo,
		Description: "Chunk-to-chunk semantic similarity",
		SourceTypes: []NodeType{NodeChunk},
		TargetTypes: []NodeType{NodeChunk},
	},
	EdgeBelongsTo: {
		Type:        EdgeBelongsTo,
		Description: "Chunk assignment to a Topic cluster",
		SourceTypes: []NodeType{NodeChunk},
		TargetTypes: []NodeType{NodeTopic},
	},
	EdgeRetrieved: {
		Type:        EdgeRetrieved,
		Description: "Query to chunk provenance edge",
		SourceTypes: []NodeType{NodeQuery},
		TargetTypes: []NodeType{NodeChunk},
	},
}

// ParseNodeType maps a wire name to a node type.
func ParseNodeType(name string) (NodeType, bool) {
	t := NodeType(name)
	_, ok := NodeSchemas[t]
	return t, ok
}

// ParseEdgeType maps a wire name to an edge type.
func ParseEdgeType(name string) (EdgeType, bool) {
	t := EdgeType(name)
	_, ok := EdgeSchemas[t]
	return t, ok
}
