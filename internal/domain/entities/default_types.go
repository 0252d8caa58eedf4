package entities

// DefaultRelationTypes lists the relation tags the service ships with.
var DefaultRelationTypes = []RelationType{
	RelationIsDescribedBy,
	RelationHasDataset,
	RelationHasCode,
	RelationIsVersionOf,
	RelationHasPublishedVersion,
	RelationHasMultimedia,
	RelationIsRelatedTo,
}

// DefaultResourceTypes lists the resource tags the service ships with.
// New tags may appear without code changes; checkability is opt-in per type,
// so unknown tags are simply non-checkable.
var DefaultResourceTypes = []ResourceType{
	ResourceDataset,
	ResourceCodeRepository,
	ResourcePublishedVersion,
	ResourceMultimedia,
	ResourceRelatedWork,
}
