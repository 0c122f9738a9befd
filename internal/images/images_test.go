package images

import (
	"errors"
	"fmt"
	"testing"
)

func sampleList(n int) []Image {
	list := make([]Image, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, Image{
			Src:      fmt.Sprintf("https://example.com/%d.jpg", i),
			Alt:      fmt.Sprintf("image %d", i),
			PublicID: fmt.Sprintf("folder/img-%d", i),
		})
	}
	return list
}

func TestAddAppendsInOrder(t *testing.T) {
	list := sampleList(2)
	img := Image{Src: "https://example.com/new.jpg", Alt: "new", PublicID: "folder/new"}

	out, err := Add(list, img, MaxPerPost)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 images, got %d", len(out))
	}
	if out[2].PublicID != "folder/new" {
		t.Fatalf("new image not appended last: %v", out)
	}
	if len(list) != 2 {
		t.Fatalf("input list mutated")
	}
}

func TestAddRejectsFullCollection(t *testing.T) {
	list := sampleList(MaxPerPost)
	_, err := Add(list, Image{Src: "https://example.com/x.jpg", Alt: "x", PublicID: "x"}, MaxPerPost)
	if !errors.Is(err, ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
}

func TestRemoveShiftsIndices(t *testing.T) {
	list := sampleList(3)
	out, removed, err := Remove(list, 0)
	if err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if removed.PublicID != "folder/img-0" {
		t.Fatalf("wrong entry removed: %v", removed)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 images, got %d", len(out))
	}
	if out[0].PublicID != "folder/img-1" || out[1].PublicID != "folder/img-2" {
		t.Fatalf("relative order broken after shift: %v", out)
	}
}

func TestRemoveBounds(t *testing.T) {
	list := sampleList(3)
	for _, idx := range []int{-1, 3, 10} {
		if _, _, err := Remove(list, idx); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestRemoveProtectsLastImage(t *testing.T) {
	list := sampleList(1)
	_, _, err := Remove(list, 0)
	if !errors.Is(err, ErrLastImageProtected) {
		t.Fatalf("expected ErrLastImageProtected, got %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("list changed despite error")
	}
}

func TestRenameAltTrims(t *testing.T) {
	list := sampleList(2)
	out, err := RenameAlt(list, 1, "  a rescued dog  ")
	if err != nil {
		t.Fatalf("RenameAlt error: %v", err)
	}
	if out[1].Alt != "a rescued dog" {
		t.Fatalf("alt not trimmed: %q", out[1].Alt)
	}
	if list[1].Alt != "image 1" {
		t.Fatalf("input list mutated")
	}
}

func TestRenameAltRejectsWhitespaceOnly(t *testing.T) {
	list := sampleList(2)
	if _, err := RenameAlt(list, 0, "   "); !errors.Is(err, ErrInvalidAltText) {
		t.Fatalf("expected ErrInvalidAltText, got %v", err)
	}
}

func TestRenameAltBounds(t *testing.T) {
	list := sampleList(2)
	if _, err := RenameAlt(list, 2, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(nil, MaxPerPost); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if err := Validate(sampleList(MaxPerPost+1), MaxPerPost); !errors.Is(err, ErrCollectionFull) {
		t.Fatalf("expected ErrCollectionFull, got %v", err)
	}
	bad := sampleList(2)
	bad[1].Alt = "  "
	if err := Validate(bad, MaxPerPost); !errors.Is(err, ErrInvalidAltText) {
		t.Fatalf("expected ErrInvalidAltText, got %v", err)
	}
	if err := Validate(sampleList(3), MaxPerPost); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
