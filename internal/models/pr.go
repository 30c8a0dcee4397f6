package models

// PullRequest is the state of the triggering pull request at the start of a run
type PullRequest struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Number int    `json:"number"`
	Branch string `json:"branch"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// UpdateRequest is the payload of a pull request update. Nil fields are left
// untouched by the platform.
type UpdateRequest struct {
	Owner  string  `json:"owner"`
	Repo   string  `json:"repo"`
	Number int     `json:"pull_number"`
	Title  *string `json:"title,omitempty"`
	Body   *string `json:"body,omitempty"`
}

// HasChanges reports whether the request would modify anything
func (r *UpdateRequest) HasChanges() bool {
	return r.Title != nil || r.Body != nil
}

// Result summarizes what a run did. TitleUpdated and BodyUpdated are set
// only once the update was accepted with a 200; Request holds the planned
// update even when it was not sent.
type Result struct {
	Matched      string         `json:"matched"`
	TitleUpdated bool           `json:"title_updated"`
	BodyUpdated  bool           `json:"body_updated"`
	Request      *UpdateRequest `json:"request,omitempty"`
	// StatusCode is 0 when no request was sent
	StatusCode int `json:"status_code"`
}
