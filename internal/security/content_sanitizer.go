// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizer はユーザー名やTodoタイトルなど、保存前のプレーンテキストから
// HTMLタグを除去する。保存したテキストはそのままAPIで返されるため、
// フロントエンドでのXSSを防ぐ目的で使用する。
package security

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はテキストのサニタイズ機能のインターフェースを定義する。
type TextSanitizer interface {
	// Sanitize は入力からすべてのHTMLタグを除去したプレーンテキストを返す。
	// script、styleなどの要素は内容ごと除去される。
	// HTMLエンティティはエスケープせずに元の文字へ戻すため、
	// タグを含まない入力は変更されない。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerの新しいインスタンスを生成する。
// すべての要素を拒否するbluemondayのStrictPolicyを使用する。
func NewTextSanitizer() TextSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力からHTMLタグを除去する。
func (s *textSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	// StrictPolicyは&や'をエンティティに変換するため、JSONで返す前に戻す
	return html.UnescapeString(s.policy.Sanitize(raw))
}
