package storage

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestAssetValidate(t *testing.T) {
	tests := map[string]struct {
		asset  Asset[*mockStoreSpec]
		expErr bool
	}{
		"valid": {
			asset: Asset[*mockStoreSpec]{Version: 1, Identifier: "ok", Spec: &mockStoreSpec{Name: "n"}},
		},
		"missing version": {
			asset:  Asset[*mockStoreSpec]{Identifier: "ok", Spec: &mockStoreSpec{Name: "n"}},
			expErr: true,
		},
		"missing id": {
			asset:  Asset[*mockStoreSpec]{Version: 1, Spec: &mockStoreSpec{Name: "n"}},
			expErr: true,
		},
		"bad id characters": {
			asset:  Asset[*mockStoreSpec]{Version: 1, Identifier: "no spaces", Spec: &mockStoreSpec{Name: "n"}},
			expErr: true,
		},
		"underscore id": {
			asset: Asset[*mockStoreSpec]{Version: 1, Identifier: "ranch_camp_59", Spec: &mockStoreSpec{Name: "n"}},
		},
		"invalid spec": {
			asset:  Asset[*mockStoreSpec]{Version: 1, Identifier: "ok", Spec: &mockStoreSpec{}},
			expErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.asset.Validate()
			testutil.AssertEqual(t, "error", err != nil, tt.expErr)
		})
	}
}

func TestSmartIdentifierResolve(t *testing.T) {
	store := MapStore[*mockStoreSpec]{
		"thing": &mockStoreSpec{Name: "Thing"},
	}

	var id SmartIdentifier[*mockStoreSpec]
	if err := json.Unmarshal([]byte(`"thing"`), &id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "key", id.Key(), Identifier("thing"))

	if err := id.Resolve(store); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "value", id.Get().Name, "Thing")

	missing := NewSmartIdentifier[*mockStoreSpec]("absent")
	if err := missing.Resolve(store); err == nil {
		t.Error("expected error for unresolvable reference")
	}
}
