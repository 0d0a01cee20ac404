package record

import "testing"

func TestCanSaveRequest(t *testing.T) {
	tests := []struct {
		name        string
		ctx         RequestContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "digits and address",
			ctx:         RequestContext{Num: "123", Addr: "Lenina 5"},
			wantAllowed: true,
		},
		{
			name:        "non-digit number",
			ctx:         RequestContext{Num: "12a", Addr: "Lenina 5"},
			wantAllowed: false,
			wantReason:  "request number must contain digits only",
		},
		{
			name:        "empty number",
			ctx:         RequestContext{Num: "", Addr: "Lenina 5"},
			wantAllowed: false,
			wantReason:  "request number must contain digits only",
		},
		{
			name:        "signed number",
			ctx:         RequestContext{Num: "-12", Addr: "Lenina 5"},
			wantAllowed: false,
			wantReason:  "request number must contain digits only",
		},
		{
			name:        "empty address",
			ctx:         RequestContext{Num: "123", Addr: ""},
			wantAllowed: false,
			wantReason:  "address is required",
		},
		{
			name:        "valid stamps",
			ctx:         RequestContext{Num: "1", Addr: "A", T1: "09:00", T3: "23:59"},
			wantAllowed: true,
		},
		{
			name:        "bad stamp",
			ctx:         RequestContext{Num: "1", Addr: "A", T2: "25:00"},
			wantAllowed: false,
			wantReason:  "t2 must be HH:MM",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSaveRequest(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanSaveDelivered(t *testing.T) {
	tests := []struct {
		name        string
		ctx         DeliveredContext
		wantAllowed bool
		wantReason  string
	}{
		{name: "name only", ctx: DeliveredContext{Name: "Petrov"}, wantAllowed: true},
		{name: "name and time", ctx: DeliveredContext{Name: "Petrov", Time: "03:15"}, wantAllowed: true},
		{name: "missing name", ctx: DeliveredContext{Time: "03:15"}, wantAllowed: false, wantReason: "name is required"},
		{name: "bad time", ctx: DeliveredContext{Name: "Petrov", Time: "3:15"}, wantAllowed: false, wantReason: "time must be HH:MM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSaveDelivered(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanSaveAssist(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AssistContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "short interval",
			ctx:         AssistContext{Service: "EMS", Start: "09:00", End: "10:30"},
			wantAllowed: true,
		},
		{
			name:        "missing service",
			ctx:         AssistContext{Start: "09:00", End: "10:30"},
			wantAllowed: false,
			wantReason:  "service is required",
		},
		{
			name:        "bad end",
			ctx:         AssistContext{Service: "EMS", Start: "09:00", End: "later"},
			wantAllowed: false,
			wantReason:  "invalid time format",
		},
		{
			name:        "long interval without confirmation",
			ctx:         AssistContext{Service: "EMS", Start: "08:00", End: "21:00"},
			wantAllowed: false,
			wantReason:  "interval 13:00 looks too long; confirm to save",
		},
		{
			name:        "long interval confirmed",
			ctx:         AssistContext{Service: "EMS", Start: "08:00", End: "21:00", Confirmed: true},
			wantAllowed: true,
		},
		{
			name:        "exactly twelve hours",
			ctx:         AssistContext{Service: "EMS", Start: "20:00", End: "08:00"},
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSaveAssist(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}
