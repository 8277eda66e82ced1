package httptransport

import "time"

// CreateCollectionRequest carries a new registry deployment. Addresses are 0x
// hex strings; salt is a 0x-prefixed 32-byte hex string.
type CreateCollectionRequest struct {
	Forwarder string `json:"forwarder"`
	Factory   string `json:"factory"`
	Salt      string `json:"salt"`
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	BaseURI   string `json:"base_uri"`
}

type CreateCollectionResponse struct {
	Deployed string `json:"deployed"`
}

// ManageCollectionRequest relays opaque call data to a verified collection.
// CallData is hex encoded with a 0x prefix.
type ManageCollectionRequest struct {
	Forwarder  string `json:"forwarder"`
	Collection string `json:"collection"`
	CallData   string `json:"call_data"`
}

type ManageCollectionResponse struct {
	ReturnData string `json:"return_data"`
}

// SetAllowedOperationRequest toggles one committee allow-list entry. Selector
// is the 4-byte method identifier, hex encoded with a 0x prefix.
type SetAllowedOperationRequest struct {
	Selector string `json:"selector"`
	Allowed  bool   `json:"allowed"`
}

type AllowedOperationPayload struct {
	Selector  string    `json:"selector"`
	Allowed   bool      `json:"allowed"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListAllowedOperationsResponse struct {
	Items []AllowedOperationPayload `json:"items"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
