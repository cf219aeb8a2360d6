package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"typeshift/src/args"
	"typeshift/src/constraint"
	"typeshift/src/database"
)

// RunEncode prints the storage form of a raw value as extended JSON.
func RunEncode(ctx context.Context, encodeArgs *args.EncodeArgs, manager *constraint.Manager, out io.Writer) error {
	c, err := parseConstraint(encodeArgs.Constraint)
	if err != nil {
		return err
	}

	var encoded interface{}
	if encodeArgs.TryHard {
		encoded, err = manager.EncodeForFce(encodeArgs.Value, c)
	} else {
		encoded, err = manager.EncodeConstraint(encodeArgs.Value, c)
	}
	if err != nil {
		return err
	}

	data, err := database.EncodeDocument(constraint.DataDocument{"value": encoded})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// RunDecode prints the display form of a stored value given as extended
// JSON; text that is not JSON is decoded as a string.
func RunDecode(ctx context.Context, decodeArgs *args.DecodeArgs, manager *constraint.Manager, out io.Writer) error {
	c, err := parseConstraint(decodeArgs.Constraint)
	if err != nil {
		return err
	}

	var value interface{} = decodeArgs.Value
	if doc, err := database.DecodeDocument([]byte(`{"value":` + decodeArgs.Value + `}`)); err == nil {
		value = doc["value"]
	}

	decoded, err := manager.Decode(value, c)
	if err != nil {
		return err
	}
	data, err := json.Marshal(decoded)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
