package dto

import "testing"

func TestListParams_PageSize(t *testing.T) {
	tests := []struct {
		per  string
		want int
	}{
		{"", 25},
		{"abc", 25},
		{"10", 10},
		{" 40 ", 40},
		{"0", 1},
		{"-5", 1},
		{"9999", 500},
	}
	for _, tt := range tests {
		p := &ListParams{Per: tt.per}
		if got := p.PageSize(25, 500); got != tt.want {
			t.Errorf("PageSize(%q) = %d, want %d", tt.per, got, tt.want)
		}
	}
}

func TestListParams_Modes(t *testing.T) {
	if got := (&ListParams{Mode: "PER"}).PaginationMode(ModeDay); got != ModePer {
		t.Errorf("expected per, got %s", got)
	}
	if got := (&ListParams{Mode: "weekly"}).PaginationMode(ModeDay); got != ModeDay {
		t.Errorf("unknown mode should fall back, got %s", got)
	}
	if (&ListParams{}).Direction() != DirDesc || (&ListParams{Dir: "ASC"}).Direction() != DirAsc {
		t.Error("direction defaults to desc")
	}
}

func TestPendingDeletionResponse_Remaining(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{-30, "00:00:00"},
		{3661, "01:01:01"},
		{47 * 3600, "47:00:00"},
	}
	for _, tt := range tests {
		r := PendingDeletionResponse{RemainingSeconds: tt.secs}
		if got := r.Remaining(); got != tt.want {
			t.Errorf("Remaining(%d) = %s, want %s", tt.secs, got, tt.want)
		}
	}
}
