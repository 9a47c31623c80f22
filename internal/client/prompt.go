package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputClosed is returned once the input stream is exhausted.
var ErrInputClosed = errors.New("input closed")

// Prompter reads line-oriented answers from one shared scanner.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from in and writes labels to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Login asks for a username and PIN.
func (p *Prompter) Login() (username, pin string, err error) {
	if username, err = p.Line("Username: "); err != nil {
		return "", "", err
	}
	if pin, err = p.Line("PIN: "); err != nil {
		return "", "", err
	}
	return username, pin, nil
}

// Item asks for the add-item form. Empty dates keep the previous form values.
func (p *Prompter) Item(prev ItemForm) (ItemForm, error) {
	var (
		form ItemForm
		err  error
	)
	if form.Name, err = p.Line("Item name: "); err != nil {
		return ItemForm{}, err
	}
	if form.TargetPrice, err = p.Line("Target price: "); err != nil {
		return ItemForm{}, err
	}
	if form.StartDate, err = p.Line(withDefault("Start date (YYYY-MM-DD)", prev.StartDate)); err != nil {
		return ItemForm{}, err
	}
	if form.StartDate == "" {
		form.StartDate = prev.StartDate
	}
	if form.EndDate, err = p.Line(withDefault("End date (YYYY-MM-DD)", prev.EndDate)); err != nil {
		return ItemForm{}, err
	}
	if form.EndDate == "" {
		form.EndDate = prev.EndDate
	}
	return form, nil
}

func withDefault(label, def string) string {
	if def == "" {
		return label + ": "
	}
	return fmt.Sprintf("%s [%s]: ", label, def)
}
