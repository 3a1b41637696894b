package utils

import "strconv"

/*
ParseBool 解析表单中的布尔值，空字符串视为 false
*/
func ParseBool(value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}

func UintToString(u uint) string {
	return strconv.FormatUint(uint64(u), 10)
}
