package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/savingsboard/internal/models"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want models.Payload
	}{
		{
			name: "login",
			body: `{"action":"login","username":" alice ","pin":"1234"}`,
			want: models.Payload{Action: models.ActionLogin, Username: "alice", Pin: "1234"},
		},
		{
			name: "list boards",
			body: `{"action":"list_boards","username":"alice","pin":"1234"}`,
			want: models.Payload{Action: models.ActionListBoards, Username: "alice", Pin: "1234"},
		},
		{
			name: "create board without code",
			body: `{"action":"create_board","username":"alice","pin":"1234","board_name":"Trip"}`,
			want: models.Payload{Action: models.ActionCreateBoard, Username: "alice", Pin: "1234", BoardName: "Trip"},
		},
		{
			name: "create board with code",
			body: `{"action":"create_board","username":"alice","pin":"1234","board_name":"Trip","board_code":"AB12"}`,
			want: models.Payload{Action: models.ActionCreateBoard, Username: "alice", Pin: "1234", BoardName: "Trip", BoardCode: "AB12"},
		},
		{
			name: "join board",
			body: `{"action":"join_board","username":"bob","pin":"98765","board_code":"AB12"}`,
			want: models.Payload{Action: models.ActionJoinBoard, Username: "bob", Pin: "98765", BoardCode: "AB12"},
		},
		{
			name: "get board strips unknown keys",
			body: `{"action":"get_board","username":"bob","pin":"9876","board_code":"AB12","extra":true}`,
			want: models.Payload{Action: models.ActionGetBoard, Username: "bob", Pin: "9876", BoardCode: "AB12"},
		},
		{
			name: "add item keeps price literal",
			body: `{"action":"add_item","username":"bob","pin":"9876","board_code":"AB12","item_name":"Camera","target_price":12.50,"start_date":"2024-01-01","end_date":"2024-06-30"}`,
			want: models.Payload{
				Action: models.ActionAddItem, Username: "bob", Pin: "9876", BoardCode: "AB12",
				ItemName: "Camera", TargetPrice: "12.50", StartDate: "2024-01-01", EndDate: "2024-06-30",
			},
		},
		{
			name: "add item with impossible calendar date",
			body: `{"action":"add_item","username":"bob","pin":"9876","board_code":"AB12","item_name":"Camera","target_price":5,"start_date":"2024-13-40","end_date":"2024-13-41"}`,
			want: models.Payload{
				Action: models.ActionAddItem, Username: "bob", Pin: "9876", BoardCode: "AB12",
				ItemName: "Camera", TargetPrice: "5", StartDate: "2024-13-40", EndDate: "2024-13-41",
			},
		},
		{
			name: "analyze item",
			body: `{"action":"analyze_item","username":"bob","pin":"9876","board_code":"AB12","item_id":7,"item_name":"Camera","target_price":300,"start_date":"2024-01-01","end_date":"2024-02-01"}`,
			want: models.Payload{
				Action: models.ActionAnalyzeItem, Username: "bob", Pin: "9876", BoardCode: "AB12", ItemID: 7,
				ItemName: "Camera", TargetPrice: "300", StartDate: "2024-01-01", EndDate: "2024-02-01",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, body := range []string{``, `not json`, `{"action":`, `{} {}`} {
		_, err := Parse([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedJSON, "body %q", body)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		paths []string
		codes []string
	}{
		{
			name:  "not an object",
			body:  `[1,2]`,
			paths: []string{""},
			codes: []string{CodeInvalidType},
		},
		{
			name:  "missing action",
			body:  `{"username":"alice","pin":"1234"}`,
			paths: []string{"action"},
			codes: []string{CodeInvalidDiscriminator},
		},
		{
			name:  "unknown action",
			body:  `{"action":"delete_board","username":"alice","pin":"1234"}`,
			paths: []string{"action"},
			codes: []string{CodeInvalidDiscriminator},
		},
		{
			name:  "blank username and short pin",
			body:  `{"action":"login","username":"   ","pin":" 12 "}`,
			paths: []string{"username", "pin"},
			codes: []string{CodeTooSmall, CodeTooSmall},
		},
		{
			name:  "pin is a number",
			body:  `{"action":"login","username":"alice","pin":1234}`,
			paths: []string{"pin"},
			codes: []string{CodeInvalidType},
		},
		{
			name:  "create board missing name",
			body:  `{"action":"create_board","username":"alice","pin":"1234"}`,
			paths: []string{"board_name"},
			codes: []string{CodeInvalidType},
		},
		{
			name:  "create board blank optional code",
			body:  `{"action":"create_board","username":"alice","pin":"1234","board_name":"Trip","board_code":" "}`,
			paths: []string{"board_code"},
			codes: []string{CodeTooSmall},
		},
		{
			name:  "join board missing code",
			body:  `{"action":"join_board","username":"alice","pin":"1234"}`,
			paths: []string{"board_code"},
			codes: []string{CodeInvalidType},
		},
		{
			name:  "add item every field wrong",
			body:  `{"action":"add_item","username":"alice","pin":"1234","board_code":"","item_name":"","target_price":"10","start_date":"01/02/2024","end_date":"2024-1-1"}`,
			paths: []string{"board_code", "item_name", "target_price", "start_date", "end_date"},
			codes: []string{CodeTooSmall, CodeTooSmall, CodeInvalidType, CodeInvalidString, CodeInvalidString},
		},
		{
			name:  "add item zero price",
			body:  `{"action":"add_item","username":"alice","pin":"1234","board_code":"X","item_name":"Y","target_price":0,"start_date":"2024-01-01","end_date":"2024-01-02"}`,
			paths: []string{"target_price"},
			codes: []string{CodeTooSmall},
		},
		{
			name:  "analyze item fractional id",
			body:  `{"action":"analyze_item","username":"alice","pin":"1234","board_code":"X","item_id":1.5,"item_name":"Y","target_price":3,"start_date":"2024-01-01","end_date":"2024-01-02"}`,
			paths: []string{"item_id"},
			codes: []string{CodeInvalidType},
		},
		{
			name:  "analyze item id just past int64",
			body:  `{"action":"analyze_item","username":"alice","pin":"1234","board_code":"X","item_id":9223372036854775808,"item_name":"Y","target_price":3,"start_date":"2024-01-01","end_date":"2024-01-02"}`,
			paths: []string{"item_id"},
			codes: []string{CodeTooBig},
		},
		{
			name:  "analyze item id in exponent form past int64",
			body:  `{"action":"analyze_item","username":"alice","pin":"1234","board_code":"X","item_id":1e19,"item_name":"Y","target_price":3,"start_date":"2024-01-01","end_date":"2024-01-02"}`,
			paths: []string{"item_id"},
			codes: []string{CodeTooBig},
		},
		{
			name:  "analyze item negative id",
			body:  `{"action":"analyze_item","username":"alice","pin":"1234","board_code":"X","item_id":-4,"item_name":"Y","target_price":3,"start_date":"2024-01-01","end_date":"2024-01-02"}`,
			paths: []string{"item_id"},
			codes: []string{CodeTooSmall},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse([]byte(tt.body))
			require.Nil(t, p)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
			require.NotEmpty(t, verr.Issues)

			var paths, codes []string
			for _, is := range verr.Issues {
				path := ""
				if len(is.Path) > 0 {
					path = is.Path[0]
				}
				paths = append(paths, path)
				codes = append(codes, is.Code)
			}
			assert.Equal(t, tt.paths, paths)
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestValidate_AcceptsFloat64Numbers(t *testing.T) {
	var raw any
	require.NoError(t, json.Unmarshal([]byte(`{"action":"add_item","username":"a","pin":"1234","board_code":"X","item_name":"Y","target_price":2.5,"start_date":"2024-01-01","end_date":"2024-01-02"}`), &raw))

	p, err := Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, json.Number("2.5"), p.TargetPrice)
}

func TestIssue_JSONShape(t *testing.T) {
	_, err := Parse([]byte(`{"action":"login","username":"alice"}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	b, err := json.Marshal(verr.Issues)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"invalid_type","path":["pin"],"message":"Required"}]`, string(b))
	assert.Contains(t, verr.Error(), "pin: Required")
}

func TestParse_ItemIDBounds(t *testing.T) {
	const tmpl = `{"action":"analyze_item","username":"a","pin":"1234","board_code":"X","item_id":%s,"item_name":"Y","target_price":3,"start_date":"2024-01-01","end_date":"2024-01-02"}`
	tests := []struct {
		literal string
		want    int64
	}{
		{"1", 1},
		{"3.0", 3},
		{"9223372036854775807", math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			p, err := Parse([]byte(fmt.Sprintf(tmpl, tt.literal)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ItemID)
		})
	}
}
