package helpers

import (
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"reflect"
	"time"
)

/**
convenience function to perform a mapstructure decode using the customised decode hook below,
to handle UUID and timestamp values
*/
func CustomisedMapStructureDecode(incoming interface{}, outgoing interface{}) error {
	decoder, setupErr := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructureDecodeHook,
		Result:     outgoing,
	})
	if setupErr != nil {
		return setupErr
	}
	return decoder.Decode(incoming)
}

/**
this custom decode hook will perform a few extra conversions:
- if the input type is string and the output is uuid, then it will attempt to parse the uuid and send the error back
up the chain if it can't
- if the input type is string and the output is time, then it will attempt to parse the time as an RFC 3339 timestamp
and send the error back up the chain if it can't.
- if the input is a number and the output is time, it is taken as seconds since the epoch. Zero means "never" and
gives the zero time.
*/
func mapstructureDecodeHook(inType reflect.Type, outType reflect.Type, value interface{}) (interface{}, error) {
	timeType := reflect.TypeOf(time.Time{})

	if inType == reflect.TypeOf("") && outType == reflect.TypeOf(uuid.UUID{}) {
		idvalue, uuidErr := uuid.Parse(value.(string))
		if uuidErr != nil {
			return nil, uuidErr
		} else {
			return idvalue, nil
		}
	} else if inType == reflect.TypeOf("") && outType == timeType {
		timeval, timeerr := time.Parse(time.RFC3339, value.(string))
		if timeerr != nil {
			return nil, timeerr
		} else {
			return timeval, nil
		}
	} else if outType == timeType {
		var seconds int64
		switch v := value.(type) {
		case float64:
			seconds = int64(v)
		case int64:
			seconds = v
		case int:
			seconds = int64(v)
		default:
			return value, nil
		}
		if seconds == 0 {
			return time.Time{}, nil
		}
		return time.Unix(seconds, 0).UTC(), nil
	} else {
		return value, nil
	}
}
