package models

import (
	"strings"
	"testing"
)

func TestCommentValidate(t *testing.T) {
	if errs := (&Comment{Content: "fine"}).Validate(); len(errs) != 0 {
		t.Fatalf("valid comment gave errors: %v", errs)
	}
	if errs := (&Comment{Content: "   "}).Validate(); len(errs) != 1 || errs[0] != "Content can't be blank" {
		t.Errorf("blank content errors = %v", errs)
	}
	long := strings.Repeat("x", 2001)
	if errs := (&Comment{Content: long}).Validate(); len(errs) != 1 || errs[0] != "Content is too long (maximum is 2000 characters)" {
		t.Errorf("long content errors = %v", errs)
	}
}

func TestCommentPreview(t *testing.T) {
	short := &Comment{Content: "hello"}
	if got := short.Preview(50); got != "hello" {
		t.Errorf("short preview = %q", got)
	}

	long := &Comment{Content: strings.Repeat("ж", 80)}
	got := long.Preview(50)
	runes := []rune(got)
	if len(runes) != 50 {
		t.Errorf("preview length = %d runes, want 50", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Errorf("preview should end with ellipsis, got %q", got)
	}
}
