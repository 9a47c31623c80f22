// Package models defines the board actions, the payloads relayed upstream,
// and the response envelope shared by the server and the client.
package models

import "encoding/json"

// Action identifies which upstream workflow branch handles a payload.
type Action string

const (
	// ActionLogin verifies a username/PIN pair upstream.
	ActionLogin Action = "login"
	// ActionCreateBoard creates a new shared board.
	ActionCreateBoard Action = "create_board"
	// ActionJoinBoard adds the user to an existing board by code.
	ActionJoinBoard Action = "join_board"
	// ActionListBoards lists the boards the user belongs to.
	ActionListBoards Action = "list_boards"
	// ActionAddItem adds a target-price item to a board.
	ActionAddItem Action = "add_item"
	// ActionAnalyzeItem runs the market/alternatives analysis for an item.
	ActionAnalyzeItem Action = "analyze_item"
	// ActionGetBoard fetches a board with its items.
	ActionGetBoard Action = "get_board"
)

// Actions lists every recognized action in discriminator order.
var Actions = []Action{
	ActionLogin,
	ActionCreateBoard,
	ActionJoinBoard,
	ActionListBoards,
	ActionAddItem,
	ActionAnalyzeItem,
	ActionGetBoard,
}

// Payload is a validated board action. Field order defines the canonical
// JSON encoding forwarded to the webhook.
type Payload struct {
	Action      Action      `json:"action"`
	Username    string      `json:"username"`
	Pin         string      `json:"pin"`
	BoardCode   string      `json:"board_code,omitempty"`
	BoardName   string      `json:"board_name,omitempty"`
	ItemID      int64       `json:"item_id,omitempty"`
	ItemName    string      `json:"item_name,omitempty"`
	TargetPrice json.Number `json:"target_price,omitempty"`
	StartDate   string      `json:"start_date,omitempty"`
	EndDate     string      `json:"end_date,omitempty"`
}

// User is the account echoed back by the login action.
type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
}

// Board is a shared savings goal list.
type Board struct {
	ID        int64  `json:"id"`
	BoardCode string `json:"board_code"`
	Name      string `json:"name"`
}

// Membership is a board as seen from one member's list.
type Membership struct {
	ID        int64  `json:"id"`
	BoardCode string `json:"board_code"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	JoinedAt  string `json:"joined_at,omitempty"`
}

// Alternative is a cheaper option found by the analysis.
type Alternative struct {
	Name           string   `json:"name"`
	EstimatedPrice *float64 `json:"estimated_price"`
}

// Item is a target-price item priced upstream.
type Item struct {
	ID                     int64         `json:"id"`
	ItemName               string        `json:"item_name"`
	TargetPrice            float64       `json:"target_price"`
	MarketPrice            *float64      `json:"market_price"`
	SavingsDaily           *float64      `json:"savings_daily"`
	SavingsWeekly          *float64      `json:"savings_weekly"`
	StartDate              *string       `json:"start_date"`
	EndDate                *string       `json:"end_date"`
	Alternatives           []Alternative `json:"alternatives"`
	AnalysisSummary        *string       `json:"analysis_summary,omitempty"`
	AnalysisRecommendation *string       `json:"analysis_recommendation,omitempty"`
	AddedBy                string        `json:"added_by"`
	CreatedAt              string        `json:"created_at"`
}

// BoardResponse is the envelope returned by /api/board.
type BoardResponse struct {
	OK      bool         `json:"ok"`
	Error   string       `json:"error,omitempty"`
	Details any          `json:"details,omitempty"`
	Message string       `json:"message,omitempty"`
	User    *User        `json:"user,omitempty"`
	Board   *Board       `json:"board,omitempty"`
	Boards  []Membership `json:"boards,omitempty"`
	Items   []Item       `json:"items,omitempty"`
	Raw     *string      `json:"raw,omitempty"`
}

// Envelope is the server-built response body for errors and fallbacks.
type Envelope struct {
	OK      bool    `json:"ok"`
	Error   string  `json:"error,omitempty"`
	Details any     `json:"details,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     *string `json:"raw,omitempty"`
}

// Status is the liveness object served by GET /api/board.
type Status struct {
	OK               bool   `json:"ok"`
	Message          string `json:"message"`
	HasAPIURL        bool   `json:"hasApiUrl"`
	HasWebhookSecret bool   `json:"hasWebhookSecret"`
}

// Reply is a fully mapped HTTP response: a status code and a JSON body.
type Reply struct {
	Status int
	Body   []byte
}

// NewReply encodes v as the body of a Reply.
func NewReply(status int, v any) Reply {
	body, err := json.Marshal(v)
	if err != nil {
		body = []byte(`{"ok":false,"error":"Failed to encode response."}`)
	}
	return Reply{Status: status, Body: body}
}
