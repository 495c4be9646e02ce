package configstatus

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{"raw information", Information("p").WithMessageKeySuffix("k"), false},
		{"resolved warning", Warning("p").WithMessage("text"), false},
		{"missing parameter", Error("").WithMessageKeySuffix("k"), true},
		{"unknown type", Message{ParameterName: "p", Type: "NOTICE", MessageKeySuffix: "k"}, true},
		{"neither key nor text", Information("p"), true},
		{"both key and text", Information("p").WithMessageKeySuffix("k").WithMessage("t"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidMessage) {
				t.Errorf("error = %v, want ErrInvalidMessage", err)
			}
		})
	}
}

func TestMessage_Equal(t *testing.T) {
	base := Warning("p").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a", 2)

	tests := []struct {
		name  string
		other Message
		want  bool
	}{
		{"identical", Warning("p").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a", 2), true},
		{"different parameter", Warning("q").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a", 2), false},
		{"different type", Error("p").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a", 2), false},
		{"different code", Warning("p").WithMessageKeySuffix("k").WithStatusCode(2).WithArguments("a", 2), false},
		{"missing code", Warning("p").WithMessageKeySuffix("k").WithArguments("a", 2), false},
		{"different args", Warning("p").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a", 3), false},
		{"fewer args", Warning("p").WithMessageKeySuffix("k").WithStatusCode(1).WithArguments("a"), false},
		{"text instead of key", Warning("p").WithMessage("k").WithStatusCode(1).WithArguments("a", 2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}

	if !Information("p").WithMessage("x").Equal(Information("p").WithMessage("x").WithArguments()) {
		t.Error("nil and empty argument lists should be equal")
	}
}

func TestMessage_BuildersCopy(t *testing.T) {
	argsIn := []any{"a"}
	m := Information("p").WithArguments(argsIn...)
	argsIn[0] = "changed"

	if m.Arguments[0] != "a" {
		t.Error("WithArguments should copy its input")
	}

	withCode := m.WithStatusCode(5)
	if m.StatusCode != nil {
		t.Error("WithStatusCode should not modify the receiver")
	}
	if *withCode.StatusCode != 5 {
		t.Errorf("StatusCode = %d, want 5", *withCode.StatusCode)
	}
}

func TestMessage_Less(t *testing.T) {
	ordered := []Message{
		Information("a").WithMessage("x"),
		Warning("a").WithMessage("a"),
		Error("a").WithMessage("a"),
		Error("a").WithMessage("b"),
		Error("a").WithMessage("b").WithStatusCode(1),
		Error("a").WithMessage("b").WithStatusCode(2),
		Information("b").WithMessage("a"),
	}

	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].less(ordered[i+1]) {
			t.Errorf("%v should sort before %v", ordered[i], ordered[i+1])
		}
		if ordered[i+1].less(ordered[i]) {
			t.Errorf("%v should not sort before %v", ordered[i+1], ordered[i])
		}
	}
}

func TestMessage_String(t *testing.T) {
	if got := Warning("port").WithMessage("Out of range").WithStatusCode(3).String(); got != "WARNING port: Out of range (code 3)" {
		t.Errorf("String() = %q", got)
	}
	if got := Information("host").WithMessageKeySuffix("host.ok").String(); got != "INFORMATION host: key=host.ok" {
		t.Errorf("String() = %q", got)
	}
}

func TestInfo_Equal(t *testing.T) {
	a := Information("a").WithMessage("1")
	b := Warning("b").WithMessage("2")

	tests := []struct {
		name  string
		left  *Info
		right *Info
		want  bool
	}{
		{"same order", NewInfo(a, b), NewInfo(a, b), true},
		{"different order", NewInfo(a, b), NewInfo(b, a), true},
		{"missing message", NewInfo(a, b), NewInfo(a), false},
		{"duplicates count", NewInfo(a, a, b), NewInfo(a, b, b), false},
		{"both empty", NewInfo(), NewInfo(), true},
		{"nil vs empty", nil, NewInfo(), false},
		{"both nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.left.Equal(tt.right); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInfo_Filters(t *testing.T) {
	info := NewInfo(
		Information("a").WithMessage("1"),
		Warning("b").WithMessage("2"),
		Error("c").WithMessage("3"),
		Error("a").WithMessage("4"),
	)

	if got := info.ByType(TypeError); len(got) != 2 {
		t.Errorf("ByType(ERROR) = %v, want 2 messages", got)
	}
	if got := info.ByType(TypeInformation, TypeWarning); len(got) != 2 {
		t.Errorf("ByType(INFORMATION, WARNING) = %v, want 2 messages", got)
	}
	if got := info.ByParameter("a"); len(got) != 2 {
		t.Errorf("ByParameter(a) = %v, want 2 messages", got)
	}
	if got := info.ByParameter("z"); len(got) != 0 {
		t.Errorf("ByParameter(z) = %v, want none", got)
	}
}

func TestInfo_Immutable(t *testing.T) {
	msgs := []Message{Information("a").WithMessage("1")}
	info := NewInfo(msgs...)
	msgs[0].ParameterName = "changed"

	out := info.Messages()
	out[0].ParameterName = "changed again"

	if info.Messages()[0].ParameterName != "a" {
		t.Error("Info should not share storage with callers")
	}
}

func TestInfo_JSON(t *testing.T) {
	info := NewInfo(Warning("port").WithMessage("Out of range").WithStatusCode(1))

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `[{"parameter_name":"port","type":"WARNING","message":"Out of range","status_code":1}]`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	empty, _ := json.Marshal(NewInfo())
	if string(empty) != "[]" {
		t.Errorf("empty Info = %s, want []", empty)
	}

	var back Info
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !back.Equal(info) {
		t.Errorf("round trip = %v", back.Messages())
	}
}
