package entities

// RelationType is the semantic tag of a relation between an e-print and an
// external resource.
type RelationType string

// Default relation types.
const (
	RelationIsDescribedBy       RelationType = "is-described-by"
	RelationHasDataset          RelationType = "has-dataset"
	RelationHasCode             RelationType = "has-code"
	RelationIsVersionOf         RelationType = "is-version-of"
	RelationHasPublishedVersion RelationType = "has-published-version"
	RelationHasMultimedia       RelationType = "has-multimedia"
	RelationIsRelatedTo         RelationType = "is-related-to"
)

// ResourceType categorizes an external resource. Identifiers are unique only
// within their resource type namespace.
type ResourceType string

// Default resource types.
const (
	ResourceDataset          ResourceType = "dataset"
	ResourceCodeRepository   ResourceType = "code-repository"
	ResourcePublishedVersion ResourceType = "published-version"
	ResourceMultimedia       ResourceType = "multimedia"
	ResourceRelatedWork      ResourceType = "related-work"
)

// Resource is an external resource referenced by a relation, identified by a
// canonical string such as a DOI or URI.
type Resource struct {
	Type       ResourceType `json:"resource_type"`
	Identifier string       `json:"resource_identifier"`
}
