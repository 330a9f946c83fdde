package realtime

import (
	"encoding/json"
	"testing"
)

func TestDedupKeyUsesExplicitID(t *testing.T) {
	a := Event{Name: EventNuevaObservacion, Payload: json.RawMessage(`{"id":"obs-1","mensaje":"falta firma"}`)}
	b := Event{Name: EventNuevaObservacion, Payload: json.RawMessage(`{"mensaje":"otro texto","id":"obs-1"}`)}
	if DedupKey(a) != DedupKey(b) {
		t.Fatalf("same id must derive same key: %q vs %q", DedupKey(a), DedupKey(b))
	}
	c := Event{Name: EventNuevaObservacion, Payload: json.RawMessage(`{"id":"obs-2"}`)}
	if DedupKey(a) == DedupKey(c) {
		t.Fatal("different ids must derive different keys")
	}
}

func TestDedupKeyNumericID(t *testing.T) {
	a := Event{Name: EventObservacionResuelta, Payload: json.RawMessage(`{"id_observacion":42}`)}
	b := Event{Name: EventObservacionResuelta, Payload: json.RawMessage(`{"id_observacion":42}`)}
	if DedupKey(a) != DedupKey(b) {
		t.Fatal("numeric ids must be stable")
	}
}

func TestDedupKeyFallbackHash(t *testing.T) {
	a := Event{Name: "evento_raro", Payload: json.RawMessage(`{"detalle":"x"}`)}
	b := Event{Name: "evento_raro", Payload: json.RawMessage(`{"detalle":"x"}`)}
	if DedupKey(a) != DedupKey(b) {
		t.Fatal("identical payloads must hash to the same key")
	}
	c := Event{Name: "evento_raro", Payload: json.RawMessage(`{"detalle":"y"}`)}
	if DedupKey(a) == DedupKey(c) {
		t.Fatal("different payloads must hash differently")
	}
}

func TestDedupKeyTotalOnMalformedPayload(t *testing.T) {
	malformed := []json.RawMessage{nil, json.RawMessage(`not json`), json.RawMessage(`[]`), json.RawMessage(`{"id":""}`)}
	for _, payload := range malformed {
		ev := Event{Name: "x", Payload: payload}
		if DedupKey(ev) == "" {
			t.Fatalf("DedupKey must always produce a key, payload=%q", payload)
		}
	}
	// Same event name distinguishes from a different name with equal payload.
	a := Event{Name: "a", Payload: json.RawMessage(`{"k":1}`)}
	b := Event{Name: "b", Payload: json.RawMessage(`{"k":1}`)}
	if DedupKey(a) == DedupKey(b) {
		t.Fatal("event name must participate in the key")
	}
}

func TestMessageFor(t *testing.T) {
	if MessageFor(Event{Name: EventNuevaObservacion}) == EventNuevaObservacion {
		t.Fatal("known events should map to readable text")
	}
	if MessageFor(Event{Name: "evento_nuevo"}) != "evento_nuevo" {
		t.Fatal("unknown events fall back to the raw name")
	}
}
