package tool

import (
	"reflect"
	"testing"
)

func TestParseIDList(t *testing.T) {
	cases := []struct {
		in   string
		want []int64
	}{
		{"123", []int64{123}},
		{"1,2,3", []int64{1, 2, 3}},
		{"1; 2 3", []int64{1, 2, 3}},
		{"1,abc,3", []int64{1, 3}},
		{"", nil},
		{" , ; ", nil},
	}
	for _, c := range cases {
		got := ParseIDList(c.in)
		if len(got) == 0 && len(c.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseIDList(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
