package util

import (
	"strconv"
)

// StrSliceToUInt64Slice 批量转换字符串 ID 列表
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	result := make([]uint64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}
