// Package errors provides structured error handling for muninn.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Schema errors
//   - 2XX: IO errors (directories, paths)
//   - 3XX: Engine errors (create, open, write, commit, search)
//   - 4XX: Query construction errors
//   - 5XX: Lock and lifecycle errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategorySchema indicates field-catalogue construction errors.
	CategorySchema Category = "SCHEMA"
	// CategoryIO indicates directory and path I/O errors.
	CategoryIO Category = "IO"
	// CategoryEngine indicates errors reported by the indexing engine.
	CategoryEngine Category = "ENGINE"
	// CategoryQuery indicates query construction and validation errors.
	CategoryQuery Category = "QUERY"
	// CategoryLock indicates lock acquisition and lifecycle errors.
	CategoryLock Category = "LOCK"
)

// Error codes organized by category.
const (
	// Schema errors (100-199)
	ErrCodeInvalidFieldKind = "ERR_101_INVALID_FIELD_KIND"
	ErrCodeDuplicateField   = "ERR_102_DUPLICATE_FIELD"
	ErrCodeSchemaSidecar    = "ERR_103_SCHEMA_SIDECAR"

	// IO errors (200-299)
	ErrCodeCreateDir = "ERR_201_CREATE_DIR"
	ErrCodeIndexPath = "ERR_202_INDEX_PATH"

	// Engine errors (300-399)
	ErrCodeIndexCreate  = "ERR_301_INDEX_CREATE"
	ErrCodeIndexOpen    = "ERR_302_INDEX_OPEN"
	ErrCodeWriterInit   = "ERR_303_WRITER_INIT"
	ErrCodeCommit       = "ERR_304_COMMIT"
	ErrCodeRollback     = "ERR_305_ROLLBACK"
	ErrCodeSearch       = "ERR_306_SEARCH"
	ErrCodeWriterBudget = "ERR_307_WRITER_BUDGET"

	// Query errors (400-499)
	ErrCodeFieldNotFound  = "ERR_401_FIELD_NOT_FOUND"
	ErrCodeFieldKind      = "ERR_402_FIELD_KIND"
	ErrCodeEmptyPrefix    = "ERR_403_EMPTY_PREFIX"
	ErrCodeEmptyFieldList = "ERR_404_EMPTY_FIELD_LIST"
	ErrCodeQueryParse     = "ERR_405_QUERY_PARSE"
	ErrCodeFuzzyDistance  = "ERR_406_FUZZY_DISTANCE"

	// Lock and lifecycle errors (500-599)
	ErrCodeLockHeld    = "ERR_501_LOCK_HELD"
	ErrCodeIndexClosed = "ERR_502_INDEX_CLOSED"
	ErrCodeInternal    = "ERR_503_INTERNAL"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryLock
	}
	switch code[4] {
	case '1':
		return CategorySchema
	case '2':
		return CategoryIO
	case '3':
		return CategoryEngine
	case '4':
		return CategoryQuery
	default:
		return CategoryLock
	}
}
