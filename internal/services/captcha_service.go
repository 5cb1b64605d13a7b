package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CaptchaService 注册页的算术验证码
type CaptchaService struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCaptchaService() *CaptchaService {
	return &CaptchaService{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GenerateMathProblem 返回题目（如 "3 + 5"）和答案，答案存进 session
func (s *CaptchaService) GenerateMathProblem() (string, int) {
	s.mu.Lock()
	a := s.rnd.Intn(10)
	b := s.rnd.Intn(10)
	op := s.rnd.Intn(2)
	s.mu.Unlock()

	if op == 0 {
		return fmt.Sprintf("%d + %d", a, b), a + b
	}
	if a < b {
		a, b = b, a
	}
	return fmt.Sprintf("%d - %d", a, b), a - b
}

// Verify 比较 session 中保存的答案与用户输入；空输入或非数字一律不通过
func (s *CaptchaService) Verify(stored any, input string) bool {
	expected, ok := stored.(int)
	if !ok {
		return false
	}
	got, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return false
	}
	return got == expected
}
