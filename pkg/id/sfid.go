package id

import (
	"fmt"
	"strconv"
)

// SFID is a snowflake id. Its text form is the decimal value, so it survives JSON
// consumers without 64-bit integers.
type SFID uint64

func (s *SFID) UnmarshalText(text []byte) error {
	id, err := strconv.ParseUint(string(text), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid sfid: %q", text)
	}
	*s = SFID(id)
	return nil
}

func (s SFID) MarshalText() (text []byte, err error) {
	return []byte(strconv.FormatUint(uint64(s), 10)), nil
}

func (s SFID) String() string {
	return strconv.FormatUint(uint64(s), 10)
}
