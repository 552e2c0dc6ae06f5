package span

type DimensionType string

const (
	DimensionTypeValidation DimensionType = "validation"
	DimensionTypeFatal      DimensionType = "fatal"
	DimensionTypeOperation  DimensionType = "operation"
)
