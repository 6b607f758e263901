package auth

// SessionData represents the authenticated admin context for a request
type SessionData struct {
	SessionToken string `json:"session_token"`
	ApproverID   int64  `json:"approver_id"`
	Label        string `json:"label"`
}
