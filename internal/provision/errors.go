package provision

import "github.com/gofiber/fiber/v2"

// Code is a machine-readable creation/validation error code.
type Code string

// Validation and creation error codes, in the order the checks run.
const (
	CodeUserCreationDisabled Code = "USER_CREATION_DISABLED"
	CodeUserNotAllowed       Code = "USER_NOT_ALLOWED"
	CodeMissingField         Code = "MISSING_FIELD"

	CodeNodeNotFound       Code = "NODE_NOT_FOUND"
	CodeNodeNotAllowed     Code = "NODE_NOT_ALLOWED"
	CodeLocationNotAllowed Code = "LOCATION_NOT_ALLOWED"
	CodeRealmNotFound      Code = "REALM_NOT_FOUND"
	CodeRealmNotAllowed    Code = "REALM_NOT_ALLOWED"
	CodeSpellNotFound      Code = "SPELL_NOT_FOUND"
	CodeSpellNotAllowed    Code = "SPELL_NOT_ALLOWED"
	CodeSpellRealmMismatch Code = "SPELL_REALM_MISMATCH"

	CodeNoFreeAllocations Code = "NO_FREE_ALLOCATIONS"

	CodeInvalidMemory Code = "INVALID_MEMORY"
	CodeInvalidCPU    Code = "INVALID_CPU"
	CodeInvalidDisk   Code = "INVALID_DISK"

	CodeInsufficientServers     Code = "INSUFFICIENT_SERVERS"
	CodeInsufficientMemory      Code = "INSUFFICIENT_MEMORY"
	CodeInsufficientCPU         Code = "INSUFFICIENT_CPU"
	CodeInsufficientDisk        Code = "INSUFFICIENT_DISK"
	CodeInsufficientDatabases   Code = "INSUFFICIENT_DATABASES"
	CodeInsufficientBackups     Code = "INSUFFICIENT_BACKUPS"
	CodeInsufficientAllocations Code = "INSUFFICIENT_ALLOCATIONS"

	CodeMissingRequiredVariable Code = "MISSING_REQUIRED_VARIABLE"

	CodeInvalidServerConfig         Code = "INVALID_SERVER_CONFIG"
	CodeWingsUnauthorized           Code = "WINGS_UNAUTHORIZED"
	CodeWingsForbidden              Code = "WINGS_FORBIDDEN"
	CodeInvalidServerData           Code = "INVALID_SERVER_DATA"
	CodeWingsError                  Code = "WINGS_ERROR"
	CodeFailedToCreateServerInWings Code = "FAILED_TO_CREATE_SERVER_IN_WINGS"
	CodeFailedToCreateServer        Code = "FAILED_TO_CREATE_SERVER"
)

// HTTPStatus maps an error code to the HTTP status the API responds with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUserCreationDisabled, CodeUserNotAllowed,
		CodeNodeNotAllowed, CodeLocationNotAllowed,
		CodeRealmNotAllowed, CodeSpellNotAllowed,
		CodeWingsForbidden:
		return fiber.StatusForbidden
	case CodeNodeNotFound, CodeRealmNotFound, CodeSpellNotFound:
		return fiber.StatusNotFound
	case CodeWingsUnauthorized:
		return fiber.StatusUnauthorized
	case CodeMissingField, CodeSpellRealmMismatch,
		CodeInvalidMemory, CodeInvalidCPU, CodeInvalidDisk,
		CodeMissingRequiredVariable, CodeInvalidServerConfig:
		return fiber.StatusBadRequest
	case CodeNoFreeAllocations,
		CodeInsufficientServers, CodeInsufficientMemory, CodeInsufficientCPU,
		CodeInsufficientDisk, CodeInsufficientDatabases,
		CodeInsufficientBackups, CodeInsufficientAllocations,
		CodeInvalidServerData:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// CreateError is a categorical failure of validation or creation.
type CreateError struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *CreateError) Error() string {
	return string(e.Code) + ": " + e.Message
}

func fail(code Code, message string) *CreateError {
	return &CreateError{Code: code, Message: message}
}
