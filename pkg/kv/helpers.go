package kv

// PrefixEnd returns the smallest key greater than every key starting with prefix,
// or nil when there is none.
func PrefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// ScanPrefix calls fn with every key-value pair under prefix in key order.
// The slices passed to fn are only valid during the call.
func ScanPrefix(s Session, prefix []byte, fn func(k, v []byte) error) error {
	it := s.Iterator(prefix, PrefixEnd(prefix))
	defer it.Close()

	for it.First(); it.Valid(); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			return err
		}
	}

	return it.Error()
}
