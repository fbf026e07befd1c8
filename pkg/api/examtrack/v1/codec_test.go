package examtrackv1

import "testing"

func TestJSONCodecUnmarshal(t *testing.T) {
	var codec JSONCodec

	var req IDRequest
	if err := codec.Unmarshal([]byte(" {\"id\": 7}\n"), &req); err != nil || req.ID != 7 {
		t.Fatalf("unexpected result %+v (%v)", req, err)
	}

	var empty Empty
	if err := codec.Unmarshal(nil, &empty); err != nil {
		t.Fatalf("empty body: %v", err)
	}

	cases := map[string]string{
		"unknown field": `{"id": 1, "extra": true}`,
		"trailing text": `{"id": 1} this is not json`,
		"second object": `{"id": 1}{"id": 2}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var msg IDRequest
			if err := codec.Unmarshal([]byte(body), &msg); err == nil {
				t.Fatalf("expected an error for %s", body)
			}
		})
	}
}
