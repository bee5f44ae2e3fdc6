package shared_test

import (
	"reflect"
	"tablebook/shared"
	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"testing"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{
			name:     "empty string returns nil",
			input:    "",
			expected: nil,
		},
		{
			name:     "true string",
			input:    "true",
			expected: boolPtr(true),
		},
		{
			name:     "false string",
			input:    "false",
			expected: boolPtr(false),
		},
		{
			name:     "invalid string returns nil",
			input:    "maybe",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}
			} else {
				if result == nil || *result != *tt.expected {
					t.Errorf("expected %v, got %v", *tt.expected, result)
				}
			}
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 25, limit: 0, expected: 1},
		{name: "exact pages", total: 20, limit: 10, expected: 2},
		{name: "partial last page", total: 21, limit: 10, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		CustomerName  string `db:"customer_name"`
		CustomerPhone string `db:"customer_phone"`
		PartySize     int    `db:"party_size"`
		Ignored       string
	}

	req := updateRequest{
		CustomerName: "Ivan Petrov",
		PartySize:    4,
		Ignored:      "skipped",
	}

	fields := shared.TransformFields(req, "operator")

	if fields["customer_name"] != "Ivan Petrov" {
		t.Errorf("expected customer_name to be set, got %v", fields["customer_name"])
	}

	if fields["party_size"] != 4 {
		t.Errorf("expected party_size to be set, got %v", fields["party_size"])
	}

	if _, ok := fields["customer_phone"]; ok {
		t.Error("expected zero-value customer_phone to be omitted")
	}

	if fields[constant.FieldModifiedBy] != "operator" {
		t.Errorf("expected modified_by to be 'operator', got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be set")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("res-1", "id", "reservations")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "res-1",
				Operator: dto.FilterOperatorEq,
				Table:    "reservations",
			},
		},
	}

	if !reflect.DeepEqual(group, expected) {
		t.Errorf("expected %+v, got %+v", expected, group)
	}
}

func TestBuildCacheKey(t *testing.T) {
	key := shared.BuildCacheKey("reservation:get", "res-1")

	if key != "reservation:get:res-1" {
		t.Errorf("expected 'reservation:get:res-1', got %s", key)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "created_at", SortDir: "DESC"}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "active",
				Table:    "reservations",
			},
		},
	}

	first := shared.BuildCacheKeyWithQuery("reservation:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("reservation:gets", params, filter)

	if first != second {
		t.Error("expected cache key derivation to be deterministic")
	}

	other := shared.BuildCacheKeyWithQuery("reservation:gets", dto.QueryParams{Page: 2, Limit: 10}, filter)
	if first == other {
		t.Error("expected different pagination to produce a different cache key")
	}
}

func boolPtr(b bool) *bool {
	return &b
}
