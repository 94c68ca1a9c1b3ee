package pagination

import "testing"

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, Limit: 10}},
		{"negative page", Params{Page: -4, Limit: 20}, Params{Page: 1, Limit: 20}},
		{"limit over max", Params{Page: 3, Limit: 500}, Params{Page: 3, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Validate()
			if p != tt.want {
				t.Errorf("Validate() = %+v, want %+v", p, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	p := &Params{Page: 3, Limit: 10}
	if got := p.Offset(); got != 20 {
		t.Errorf("Offset() = %d, want 20", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
		{-3, 10, 0},
		// beyond float64's exact integers
		{1<<53 + 1, 1, 1<<53 + 1},
		{1<<53 + 1, 2, 1<<52 + 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		page, totalPages, want int
	}{
		{0, 5, 1},
		{3, 5, 3},
		{9, 5, 5},
		{4, 0, 1},
		{-2, 0, 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.page, tt.totalPages); got != tt.want {
			t.Errorf("Clamp(%d, %d) = %d, want %d", tt.page, tt.totalPages, got, tt.want)
		}
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[string](nil, &Params{Page: 2, Limit: 10}, 25)
	if page.Data == nil || len(page.Data) != 0 {
		t.Fatalf("expected empty non-nil data, got %#v", page.Data)
	}
	if page.TotalPages() != 3 || !page.HasNext() || !page.HasPrev() {
		t.Errorf("unexpected navigation for %+v", page)
	}
}
