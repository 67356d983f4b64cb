package domain

import "time"

// Question is one bank entry: a prompt, the single correct answer, and one
// to four wrong answers.
type Question struct {
	Prompt  string   `json:"question"`
	Correct string   `json:"correct"`
	Wrong   []string `json:"wrong"`
}

// Bank is an ordered, read-only collection of questions.
type Bank struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// CooldownRecord tracks failed attempts for one user. Attempts only ever
// grows until a pass deletes the record.
type CooldownRecord struct {
	Attempts     int       `json:"attempts"`
	LockoutUntil time.Time `json:"lockout_until"`
}

// RoleTarget names the directory mutations applied on a pass. At least one
// of the two IDs is set.
type RoleTarget struct {
	AddRoleID    string
	RemoveRoleID string
}

// MessageKind discriminates the private-message payloads the bridge renders.
type MessageKind string

const (
	KindQuestion MessageKind = "question"
	KindCooldown MessageKind = "cooldown"
	KindFailed   MessageKind = "failed"
	KindPassed   MessageKind = "passed"
)

// Message is a renderable private-message payload handed to the gateway
// bridge. Choices carry one interactive control per answer; the bridge
// reports the selected choice text back verbatim.
type Message struct {
	Kind     MessageKind `json:"kind"`
	Title    string      `json:"title,omitempty"`
	Body     string      `json:"body"`
	Choices  []string    `json:"choices,omitempty"`
	Deadline time.Time   `json:"deadline,omitempty"`
	RetryAt  time.Time   `json:"retryAt,omitempty"`
}
