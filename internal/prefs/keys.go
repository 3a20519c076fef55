package prefs

// Key enumerates every preference the daemon persists.
type Key uint8

const (
	KeyPremiumStartTime Key = iota + 1
	KeyPremiumEndTime
)

var keyNames = map[Key]string{
	KeyPremiumStartTime: "premium_start_time",
	KeyPremiumEndTime:   "premium_end_time",
}

func (k Key) String() string {
	return keyNames[k]
}

// Keys lists the known keys in declaration order.
func Keys() []Key {
	return []Key{KeyPremiumStartTime, KeyPremiumEndTime}
}

func keyByName(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}
