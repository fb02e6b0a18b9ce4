package records

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// EncodeClaim canonicalizes an arbitrary JSON object into the binary claim
// form stored inside a Record. The transport layer accepts claims as JSON;
// the chain only ever sees the canonical bytes.
func EncodeClaim(jsonBody []byte) ([]byte, error) {
	var fields map[string]any
	if err := json.Unmarshal(jsonBody, &fields); err != nil {
		return nil, fmt.Errorf("claim must be a JSON object: %w", err)
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build claim structure: %w", err)
	}

	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claim: %w", err)
	}
	return data, nil
}

// DecodeClaim converts a binary claim back into its JSON object form.
func DecodeClaim(data []byte) ([]byte, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return json.Marshal(st.AsMap())
}
