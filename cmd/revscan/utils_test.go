package revscan

import (
	"reflect"
	"testing"
)

func TestPickString_Precedence(t *testing.T) {
	local := "local"
	global := "global"
	if got := pickString("cli", &local, &global); got != "cli" {
		t.Fatalf("cli must win, got %q", got)
	}
	if got := pickString("", &local, &global); got != "local" {
		t.Fatalf("local must beat global, got %q", got)
	}
	if got := pickString("", nil, &global); got != "global" {
		t.Fatalf("global is the fallback, got %q", got)
	}
	if got := pickString("", nil, nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestPickInt64_ZeroMeansUnset(t *testing.T) {
	local := int64(0)
	global := int64(9)
	if got := pickInt64(0, &local, &global); got != 9 {
		t.Fatalf("zero local is unset, expected global 9, got %d", got)
	}
}

func TestPickBool_LocalOverridesGlobal(t *testing.T) {
	localFalse := false
	globalTrue := true
	if pickBool(false, &localFalse, &globalTrue) {
		t.Fatal("explicit local false must override global true")
	}
	if !pickBool(true, &localFalse, &globalTrue) {
		t.Fatal("cli true must win")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" .py, .go ,,.rb ")
	want := []string{".py", ".go", ".rb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitList = %#v, want %#v", got, want)
	}
	if splitList("") != nil {
		t.Fatal("empty input must return nil")
	}
}
