package messages

const (
	BadStatusCodeMsg    = "API returned status code %d on URL %s"
	FailedToParseMsg    = "failed to parse API response"
	InternalError       = "internal server error"
	InvalidName         = "enter a valid name"
	NotFound            = "pokémon not found"
	OperationInProgress = "operation already in progress, please wait"
	RequestFailedMsg    = "API request failed on URL %s"
)
