package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp 兼容 API 返回的两种时间格式：
// ISO 字符串 "2023-03-14T10:20:30" 以及数组 [2023,3,14,10,20,30,123000000]
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return t.parseString(s)
	case '[':
		var parts []json.RawMessage
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}
		return t.parseParts(parts)
	}
	return fmt.Errorf("timestamp: unsupported value %s", data)
}

func (t *Timestamp) parseString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", s)
}

func (t *Timestamp) parseParts(parts []json.RawMessage) error {
	if len(parts) < 3 {
		return fmt.Errorf("timestamp: need at least year, month, day, got %d parts", len(parts))
	}

	// 年 月 日 时 分 秒 纳秒，缺失的尾部字段按 0 处理
	var fields [7]int
	for i := 0; i < len(parts) && i < len(fields); i++ {
		raw := strings.Trim(string(parts[i]), `" `)
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("timestamp: part %d: %w", i, err)
		}
		fields[i] = n
	}

	t.Time = time.Date(fields[0], time.Month(fields[1]), fields[2],
		fields[3], fields[4], fields[5], fields[6], time.UTC)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}
