package utils

import (
	"strings"
	"unicode"
)

/*
ListSplitter 用于拆分以若干分隔符分隔的名称列表，例如 "syn1, syn2;syn3"。

拆分后的每一项去除首尾空白，空项被丢弃，保留原有顺序。
*/
type ListSplitter struct {
	separators map[rune]struct{}
}

/*
NewListSplitter 构建一个 ListSplitter，separators 中的任意字符都视为分隔符。
*/
func NewListSplitter(separators []rune) *ListSplitter {
	ret := ListSplitter{
		separators: make(map[rune]struct{}, len(separators)),
	}
	for _, sep := range separators {
		ret.separators[sep] = struct{}{}
	}
	return &ret
}

func (s *ListSplitter) isSeparator(ch rune) bool {
	_, ok := s.separators[ch]
	return ok
}

func (s *ListSplitter) Split(text string) []string {
	fields := strings.FieldsFunc(text, s.isSeparator)

	ret := make([]string, 0, len(fields))
	for _, field := range fields {
		item := strings.TrimFunc(field, unicode.IsSpace)
		if item == "" {
			continue
		}
		ret = append(ret, item)
	}
	return ret
}
