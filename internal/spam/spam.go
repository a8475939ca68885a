// Package spam はコメント本文の簡易スパム判定。
// 判定結果は公開を止めない。管理者の確認用フラグにだけ使う。
package spam

import (
	"regexp"
	"strings"
	"unicode"
)

// 小文字で比較する
var keywords = []string{
	"viagra",
	"cialis",
	"casino",
	"crypto",
	"bitcoin",
	"forex",
	"loan",
	"porn",
	"xxx",
	"free money",
	"click here",
	"buy now",
	"work from home",
	"gagner de l'argent",
	"cliquez ici",
	"bit.ly",
	"tinyurl",
	".ru/",
	"t.me/",
}

var urlPattern = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)

const (
	capsMinLength = 10
	capsMaxRatio  = 0.5
	maxLinks      = 3
)

func IsSuspicious(text string) bool {
	return hasKeyword(text) || tooManyCaps(text) || tooManyLinks(text)
}

func hasKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// 文字数10以上のとき、英字に占める大文字の割合で判定
func tooManyCaps(text string) bool {
	if len([]rune(text)) < capsMinLength {
		return false
	}
	var letters, upper int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(upper)/float64(letters) > capsMaxRatio
}

func tooManyLinks(text string) bool {
	return len(urlPattern.FindAllStringIndex(text, -1)) > maxLinks
}
