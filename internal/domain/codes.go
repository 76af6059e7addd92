package domain

// Error codes surfaced to callers. Some contain spaces; they are part of the
// public contract and must not be normalised.
const (
	CodeValidationException = "VALIDATION EXCEPTION"
	CodeNoIDsAvailable      = "NO IDS AVAILABLE"
	CodeNoIDsDispatched     = "NO IDS Dispatched"
	CodeLimitExceeded       = "USER_DEVICE_LIMIT_EXCEEDED"
	CodeInvalidDispatchCnt  = "INVALID_DISPATCH_COUNT"
	CodeInvalidStatus       = "INVALID_STATUS"

	CodeNullID            = "NULL_ID"
	CodeDuplicateEntity   = "DUPLICATE_ENTITY"
	CodeNonExistentEntity = "NON_EXISTENT_ENTITY"
	CodeRowVersion        = "MISMATCHED_ROW_VERSION"
	CodeIsDeleted         = "IS_DELETED_TRUE"

	CodeValidationError      = "VALIDATION_ERROR"
	CodeInternalServerError  = "INTERNAL_SERVER_ERROR"
	CodeIDGenError           = "IDGEN_ERROR"
	CodeInvalidTag           = "INVALID_TAG"
	CodeInvalidBeneficiaryID = "INVALID_BENEFICIARY_ID"
	CodeInvalidUserID        = "INVALID_USER_ID"

	CodeSeqDoesNotExist  = "SEQ_DOES_NOT_EXIST"
	CodeErrorCreatingSeq = "ERROR_CREATING_SEQ"
	CodeSeqNumberError   = "SEQ_NUMBER_ERROR"
	CodeIDGenFormatError = "IDGEN_FORMAT_ERROR"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeInvalidRegex     = "INVALID_REGEX"
	CodeIDNotFound       = "ID_NOT_FOUND"
	CodeInvalidBatchSize = "INVALID_BATCH_SIZE"
	CodeEmptyRequest     = "EMPTY REQUEST"
	CodeMDMSError        = "MDMS_ERROR"
)

// DeviceSystemUpdated marks transaction logs written by administrative status updates.
const DeviceSystemUpdated = "SYSTEM_UPDATED"
