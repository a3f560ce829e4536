package domain

import (
	"errors"
	"testing"
)

func TestOrderConfirm(t *testing.T) {
	o := Order{Status: StatusPending}

	if err := o.Confirm(); err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if o.Status != StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", o.Status)
	}

	// Confirmation is one-way; a repeat fails and changes nothing.
	err := o.Confirm()
	if !errors.Is(err, ErrAlreadyConfirmed) {
		t.Fatalf("second Confirm() = %v, want ErrAlreadyConfirmed", err)
	}
	if o.Status != StatusConfirmed {
		t.Fatalf("status after failed confirm = %s", o.Status)
	}
}

func TestIsValidStatus(t *testing.T) {
	if !IsValidStatus(StatusPending) || !IsValidStatus(StatusConfirmed) {
		t.Error("known statuses rejected")
	}
	if IsValidStatus("shipped") || IsValidStatus("") {
		t.Error("unknown status accepted")
	}
}

func TestClassifyItem(t *testing.T) {
	tests := []struct {
		name string
		item OrderItem
		want ItemKind
	}{
		{"plain design", OrderItem{DesignImage: "design.png"}, KindSimple},
		{"text only", OrderItem{CustomText: "Fluffy"}, KindSimple},
		{"template chosen", OrderItem{TemplateImage: "t1.png"}, KindPetAsset},
		{"user upload", OrderItem{UserCustomImage: "cat.jpg"}, KindPetAsset},
		{"both assets", OrderItem{TemplateImage: "t1.png", UserCustomImage: "cat.jpg"}, KindPetAsset},
		{"empty item", OrderItem{}, KindSimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyItem(tt.item); got != tt.want {
				t.Fatalf("ClassifyItem() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComputedTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{Price: 100, Quantity: 2},
		{Price: 49.5, Quantity: 1},
	}}
	if got := o.ComputedTotal(); got != 249.5 {
		t.Fatalf("ComputedTotal() = %f, want 249.5", got)
	}

	empty := Order{}
	if got := empty.ComputedTotal(); got != 0 {
		t.Fatalf("ComputedTotal() on empty order = %f", got)
	}
}

func TestHasPetAsset(t *testing.T) {
	withKind := Order{Items: []OrderItem{{Kind: KindPetAsset}}}
	if !withKind.HasPetAsset() {
		t.Error("stored discriminator not honored")
	}

	// Legacy document: no kind field, pet shape only.
	legacy := Order{Items: []OrderItem{{UserCustomImage: "cat.jpg"}}}
	if !legacy.HasPetAsset() {
		t.Error("structural classification not honored")
	}

	simple := Order{Items: []OrderItem{{DesignImage: "d.png", Kind: KindSimple}}}
	if simple.HasPetAsset() {
		t.Error("simple order classified as pet")
	}
}
