package client

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Login(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  alice \n1234\n"), &out)

	user, pin, err := p.Login()
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "1234", pin)
	assert.Contains(t, out.String(), "Username: ")

	_, err = p.Line("> ")
	assert.True(t, errors.Is(err, ErrInputClosed))
}

func TestPrompter_ItemKeepsPreviousDates(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("Camera\n499.99\n\n2024-04-01\n"), &out)

	form, err := p.Item(ItemForm{StartDate: "2024-01-01", EndDate: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, ItemForm{Name: "Camera", TargetPrice: "499.99", StartDate: "2024-01-01", EndDate: "2024-04-01"}, form)
	assert.Contains(t, out.String(), "[2024-01-01]")
}

func TestPrompter_ItemInputClosed(t *testing.T) {
	p := NewPrompter(strings.NewReader("Camera\n"), &bytes.Buffer{})
	_, err := p.Item(ItemForm{})
	assert.ErrorIs(t, err, ErrInputClosed)
}
