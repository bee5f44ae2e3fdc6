package dto_test

import (
	"net/http"
	"net/url"
	"tablebook/shared/constant"
	"tablebook/shared/dto"
	"tablebook/shared/model"
	"testing"
	"time"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2024, 2, 2, 12, 0, 0, 0, time.UTC)

	modelMetadata := model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	}

	metadata := &dto.Metadata{}
	metadata.FromModel(modelMetadata)

	if metadata.CreatedAt == "" {
		t.Error("expected CreatedAt to be formatted, got empty string")
	}

	if metadata.ModifiedAt == "" {
		t.Error("expected ModifiedAt to be formatted, got empty string")
	}

	if metadata.CreatedBy != "creator" {
		t.Errorf("expected CreatedBy to be 'creator', got %s", metadata.CreatedBy)
	}

	if metadata.ModifiedBy != "modifier" {
		t.Errorf("expected ModifiedBy to be 'modifier', got %s", metadata.ModifiedBy)
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name: "with all valid parameters",
			queryParams: map[string]string{
				"page":     "2",
				"limit":    "20",
				"sort_by":  "reservation_date",
				"sort_dir": "ASC",
			},
			defaultRequest: false,
			expected: dto.QueryParams{
				Page:    2,
				Limit:   20,
				SortBy:  "reservation_date",
				SortDir: "ASC",
			},
		},
		{
			name:           "with default request enabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  "",
				SortDir: "",
			},
		},
		{
			name: "with invalid numeric parameters",
			queryParams: map[string]string{
				"page":  "zero",
				"limit": "-5",
			},
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name: "with lowercase sort direction",
			queryParams: map[string]string{
				"sort_dir": "desc",
			},
			defaultRequest: false,
			expected: dto.QueryParams{
				SortDir: "DESC",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			for key, value := range tt.queryParams {
				values.Set(key, value)
			}

			req := &http.Request{URL: &url.URL{RawQuery: values.Encode()}}

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			if params != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, params)
			}
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name          string
		filter        dto.Filter
		expectedWhere string
		expectedArgs  map[string]any
	}{
		{
			name: "eq with table",
			filter: dto.Filter{
				Field:    "customer_phone",
				Operator: dto.FilterOperatorEq,
				Value:    "79000000001",
				Table:    "reservations",
			},
			expectedWhere: "reservations.customer_phone = :customer_phone",
			expectedArgs:  map[string]any{"customer_phone": "79000000001"},
		},
		{
			name: "greater_eq without table",
			filter: dto.Filter{
				Field:    "capacity",
				Operator: dto.FilterOperatorGreaterEq,
				Value:    4,
			},
			expectedWhere: "capacity >= :capacity",
			expectedArgs:  map[string]any{"capacity": 4},
		},
		{
			name: "unknown operator",
			filter: dto.Filter{
				Field:    "status",
				Operator: "between",
				Value:    "active",
			},
			expectedWhere: "",
			expectedArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			if where != tt.expectedWhere {
				t.Errorf("expected where %q, got %q", tt.expectedWhere, where)
			}

			if len(args) != len(tt.expectedArgs) {
				t.Errorf("expected args %+v, got %+v", tt.expectedArgs, args)
			}

			for key, value := range tt.expectedArgs {
				if args[key] != value {
					t.Errorf("expected arg %s to be %v, got %v", key, value, args[key])
				}
			}
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    "reservation_date",
				Operator: dto.FilterOperatorEq,
				Value:    "2024-02-15",
				Table:    "reservations",
			},
			dto.Filter{
				Field:    "status",
				Operator: dto.FilterOperatorEq,
				Value:    "active",
				Table:    "reservations",
			},
		},
	}

	where, args := group.GetWhereClause()

	expected := "(reservations.reservation_date = :reservation_date AND reservations.status = :status)"
	if where != expected {
		t.Errorf("expected where %q, got %q", expected, where)
	}

	if args["reservation_date"] != "2024-02-15" || args["status"] != "active" {
		t.Errorf("unexpected args: %+v", args)
	}
}

func TestFilterGroup_GetWhereClause_Empty(t *testing.T) {
	group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd}

	where, args := group.GetWhereClause()

	if where != "" {
		t.Errorf("expected empty where clause, got %q", where)
	}

	if len(args) != 0 {
		t.Errorf("expected no args, got %+v", args)
	}
}
