// Package config はアプリケーション設定の読み込みを提供する。
//
// 設定はデフォルト値、任意のTOMLファイル（CONFIG_FILE）、環境変数の順に適用する。
package config
