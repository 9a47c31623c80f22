package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atinyakov/savingsboard/internal/models"
)

const (
	defaultBoardName  = "My Savings Board"
	noBoardLabel      = "No board selected"
	unknownErrMessage = "Unknown error"
)

// Caller sends one board action to the relay.
type Caller interface {
	Call(ctx context.Context, payload models.Payload) (*models.BoardResponse, error)
}

// ItemForm is the add-item input as typed by the user.
type ItemForm struct {
	Name        string
	TargetPrice string
	StartDate   string
	EndDate     string
}

// Dashboard is the client-side view state of the login and board views.
// Every action issues exactly one call (add-item may follow up with a
// refresh) and only touches state once the call has succeeded.
type Dashboard struct {
	api      Caller
	session  *Session
	Feedback *Feedback

	Auth       *Auth
	BoardCode  string
	BoardName  string
	BoardLabel string
	Items      []models.Item
	Boards     []models.Membership
	Form       ItemForm

	Loading         bool
	AnalysisRunning int64
}

// NewDashboard restores auth and the board summary from the session.
func NewDashboard(api Caller, session *Session, feedback *Feedback) *Dashboard {
	if feedback == nil {
		feedback = NewFeedback()
	}
	d := &Dashboard{
		api:        api,
		session:    session,
		Feedback:   feedback,
		BoardName:  defaultBoardName,
		BoardLabel: noBoardLabel,
	}
	if a, ok := session.Auth(); ok {
		d.Auth = &a
	}
	if b, ok := session.Board(); ok {
		d.BoardCode = b.Code
		if b.Name != "" {
			d.BoardName = b.Name
			d.BoardLabel = fmt.Sprintf("%s (%s)", b.Name, b.Code)
		}
	}
	return d
}

// LoggedIn reports whether an auth pair is cached.
func (d *Dashboard) LoggedIn() bool { return d.Auth != nil }

// Login verifies the credentials upstream and caches them.
func (d *Dashboard) Login(ctx context.Context, username, pin string) error {
	if username == "" || pin == "" {
		return d.fail(errors.New("Enter a username and PIN."))
	}
	data, err := d.call(ctx, models.Payload{Action: models.ActionLogin, Username: username, Pin: pin})
	if err != nil {
		return err
	}

	resolved := username
	if data.User != nil && data.User.Username != "" {
		resolved = data.User.Username
	}
	auth := Auth{Username: resolved, Pin: pin}
	if err := d.session.SetAuth(auth); err != nil {
		return d.fail(fmt.Errorf("save session: %w", err))
	}
	d.Auth = &auth
	d.Feedback.SetMessage("Logged in as " + resolved)
	return nil
}

// Logout forgets auth and the board summary.
func (d *Dashboard) Logout() error {
	d.Auth = nil
	d.BoardCode = ""
	d.BoardName = defaultBoardName
	d.BoardLabel = noBoardLabel
	d.Items = nil
	d.Boards = nil
	return d.session.Clear()
}

// CreateBoard creates a board named name, or the current name when empty.
func (d *Dashboard) CreateBoard(ctx context.Context, name string) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	if name == "" {
		name = d.BoardName
	}
	if name == "" {
		return d.fail(errors.New("Enter a board name."))
	}
	d.BoardName = name

	data, err := d.call(ctx, d.payload(models.ActionCreateBoard, func(p *models.Payload) {
		p.BoardName = name
	}))
	if err != nil {
		return err
	}
	d.sync(data)

	code := d.BoardCode
	if data.Board != nil && data.Board.BoardCode != "" {
		code = data.Board.BoardCode
	}
	d.Feedback.SetMessage("Board ready. Share code: " + code)
	return nil
}

// JoinBoard joins the board with the given share code.
func (d *Dashboard) JoinBoard(ctx context.Context, code string) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	code = strings.ToUpper(code)
	if code == "" {
		return d.fail(errors.New("Enter a board code."))
	}
	data, err := d.call(ctx, d.payload(models.ActionJoinBoard, func(p *models.Payload) {
		p.BoardCode = code
	}))
	if err != nil {
		return err
	}
	d.BoardCode = code
	d.sync(data)
	d.Feedback.SetMessage("Joined board.")
	return nil
}

// Refresh reloads the current board.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	if d.BoardCode == "" {
		return d.fail(errSelectBoard)
	}
	data, err := d.call(ctx, d.getBoard())
	if err != nil {
		return err
	}
	d.sync(data)
	d.Feedback.SetMessage("Board refreshed.")
	return nil
}

// ListBoards loads the boards the user belongs to.
func (d *Dashboard) ListBoards(ctx context.Context) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	data, err := d.call(ctx, d.payload(models.ActionListBoards, nil))
	if err != nil {
		return err
	}
	d.Boards = data.Boards
	if data.Message != "" {
		d.Feedback.SetMessage(data.Message)
	}
	return nil
}

// AddItem adds the form's item. When the answer carries neither board nor
// items the board is fetched again.
func (d *Dashboard) AddItem(ctx context.Context, form ItemForm) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	d.Form = form
	price, err := strconv.ParseFloat(strings.TrimSpace(form.TargetPrice), 64)
	switch {
	case d.BoardCode == "":
		return d.fail(errSelectBoard)
	case form.Name == "":
		return d.fail(errors.New("Enter an item name."))
	case err != nil || price <= 0:
		return d.fail(errors.New("Enter a target price greater than 0."))
	case form.StartDate == "" || form.EndDate == "":
		return d.fail(errors.New("Enter start and end dates."))
	}

	data, err := d.call(ctx, d.payload(models.ActionAddItem, func(p *models.Payload) {
		p.BoardCode = d.BoardCode
		p.ItemName = form.Name
		p.TargetPrice = formatNumber(price)
		p.StartDate = form.StartDate
		p.EndDate = form.EndDate
	}))
	if err != nil {
		return err
	}

	if data.Board == nil && data.Items == nil {
		data, err = d.call(ctx, d.getBoard())
		if err != nil {
			return err
		}
	}
	d.sync(data)
	d.Feedback.SetMessage("Item added. Run analysis for recommendations.")
	d.Form = ItemForm{}
	return nil
}

// Analyze runs the AI analysis for one item. Dates come from the item,
// falling back to the current form.
func (d *Dashboard) Analyze(ctx context.Context, itemID int64) error {
	if !d.requireAuth() {
		return errLoginFirst
	}
	if d.BoardCode == "" {
		return d.fail(errSelectBoard)
	}
	item, ok := d.item(itemID)
	if !ok {
		return d.fail(errors.New("Item not found."))
	}
	start := d.Form.StartDate
	if item.StartDate != nil {
		start = *item.StartDate
	}
	end := d.Form.EndDate
	if item.EndDate != nil {
		end = *item.EndDate
	}
	if start == "" || end == "" {
		return d.fail(errors.New("Add start/end dates before running analysis."))
	}

	d.Feedback.Clear()
	d.AnalysisRunning = itemID
	defer func() { d.AnalysisRunning = 0 }()

	data, err := d.request(ctx, d.payload(models.ActionAnalyzeItem, func(p *models.Payload) {
		p.BoardCode = d.BoardCode
		p.ItemID = item.ID
		p.ItemName = item.ItemName
		p.TargetPrice = formatNumber(item.TargetPrice)
		p.StartDate = start
		p.EndDate = end
	}))
	if err != nil {
		return d.fail(err)
	}
	d.sync(data)
	d.Feedback.SetMessage("AI analysis updated.")
	return nil
}

// Totals sums target and market prices; unknown market prices count as 0.
func (d *Dashboard) Totals() (target, market float64) {
	for _, it := range d.Items {
		target += it.TargetPrice
		if it.MarketPrice != nil {
			market += *it.MarketPrice
		}
	}
	return target, market
}

var (
	errLoginFirst  = errors.New("Login first.")
	errSelectBoard = errors.New("Select a board first.")
)

func (d *Dashboard) requireAuth() bool {
	if d.Auth == nil {
		d.Feedback.SetError(errLoginFirst.Error())
		return false
	}
	return true
}

func (d *Dashboard) payload(action models.Action, fill func(*models.Payload)) models.Payload {
	p := models.Payload{Action: action, Username: d.Auth.Username, Pin: d.Auth.Pin}
	if fill != nil {
		fill(&p)
	}
	return p
}

func (d *Dashboard) getBoard() models.Payload {
	return d.payload(models.ActionGetBoard, func(p *models.Payload) { p.BoardCode = d.BoardCode })
}

// call wraps request with the loading flag and error banner.
func (d *Dashboard) call(ctx context.Context, p models.Payload) (*models.BoardResponse, error) {
	d.Feedback.Clear()
	d.Loading = true
	defer func() { d.Loading = false }()

	data, err := d.request(ctx, p)
	if err != nil {
		return nil, d.fail(err)
	}
	return data, nil
}

func (d *Dashboard) request(ctx context.Context, p models.Payload) (*models.BoardResponse, error) {
	data, err := d.api.Call(ctx, p)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// sync merges board and items from a successful answer.
func (d *Dashboard) sync(data *models.BoardResponse) {
	if data.Board != nil && data.Board.BoardCode != "" {
		d.BoardCode = data.Board.BoardCode
		d.BoardName = data.Board.Name
		d.BoardLabel = fmt.Sprintf("%s (%s)", data.Board.Name, data.Board.BoardCode)
		if err := d.session.SetBoard(BoardSummary{Code: data.Board.BoardCode, Name: data.Board.Name}); err != nil {
			d.Feedback.SetError("save session: " + err.Error())
		}
	}
	d.Items = data.Items
	if data.Message != "" {
		d.Feedback.SetMessage(data.Message)
	}
}

func (d *Dashboard) item(id int64) (models.Item, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return models.Item{}, false
}

func (d *Dashboard) fail(err error) error {
	msg := err.Error()
	if msg == "" {
		msg = unknownErrMessage
	}
	d.Feedback.SetError(msg)
	return err
}

func formatNumber(f float64) json.Number {
	return json.Number(strconv.FormatFloat(f, 'f', -1, 64))
}
