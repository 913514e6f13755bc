package imagehash

const base83Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

var base83Index = func() [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base83Chars); i++ {
		idx[base83Chars[i]] = i
	}
	return idx
}()

// encode83 writes value as exactly length base83 digits.
func encode83(value, length int) string {
	out := make([]byte, length)
	for i := 1; i <= length; i++ {
		digit := (value / pow83(length-i)) % 83
		out[i-1] = base83Chars[digit]
	}
	return string(out)
}

func decode83(s string) (int, error) {
	value := 0
	for i := 0; i < len(s); i++ {
		d := base83Index[s[i]]
		if d < 0 {
			return 0, ErrInvalidHash
		}
		value = value*83 + d
	}
	return value, nil
}

func pow83(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 83
	}
	return v
}
