// Package main provides localization for the framereel CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":             "入力",
		"Output":            "出力先",
		"Video and Quality": "動画と品質",
		"Debug":             "デバッグ",
		"Logging":           "ログ",

		// Root command
		"Assemble multi-camera frame images into MP4 videos": "マルチカメラのフレーム画像をMP4動画にまとめる",
		"framereel turns directories of per-camera frame images into one video per camera group, or into a fixed number of train/test interleaved videos.": "framereelはカメラごとのフレーム画像のディレクトリから、カメラグループごとの動画、または学習用とテスト用を交互に並べた指定本数の動画を作成します。",

		// Group command
		"Write one video per camera group": "カメラグループごとに動画を1本作成",
		"Scan the source directories, group frames by camera and write one video per group ordered by frame index.": "ソースディレクトリをスキャンし、フレームをカメラごとにまとめ、フレーム番号順に並べた動画をグループごとに作成します。",

		// Split command
		"Interleave train and test images into a fixed number of videos": "学習用とテスト用の画像を交互に並べ、指定本数の動画に分割",
		"Interleave the train and test directories by ratio and split the merged sequence into equal chunks.": "学習用とテスト用のディレクトリを比率に従って交互に並べ、結合した列を均等に分割します。",

		// Version command
		"Show version information":   "バージョン情報を表示",
		"framereel version %s":       "framereel バージョン %s",
		"Error: %v":                  "エラー: %v",

		// Input flags
		"YAML configuration file":                          "YAML設定ファイル",
		"Directory of training frames":                     "学習用フレームのディレクトリ",
		"Directory of test frames":                         "テスト用フレームのディレクトリ",
		"Literal prefix of the camera group in file names": "ファイル名中のカメラグループの接頭辞",
		"Additional source directory (repeatable)":         "追加のソースディレクトリ（複数指定可）",
		"Train to test interleave ratio (A:B)":             "学習用とテスト用の交互配置比率（A:B）",

		// Output flags
		"Output directory for MP4 files":                                 "MP4ファイルの出力ディレクトリ",
		"Frames per second of the output videos":                         "出力動画のフレームレート",
		"Number of videos encoded in parallel (default: number of CPUs)": "並列にエンコードする動画の数（デフォルト: CPU数）",
		"Write a run summary (.md or .json)":                             "実行サマリーを書き出す（.md または .json）",
		"Number of output videos":                                        "出力動画の本数",

		// Encoding flags
		"Video codec (auto, h264, mjpeg)":                                   "動画コーデック（auto, h264, mjpeg）",
		"Video CRF value (0-63, lower is better, overrides quality preset)": "動画のCRF値（0-63、低いほど高品質、品質プリセットを上書き）",
		"Quality preset (low, medium, high)":                                "品質プリセット（low, medium, high）",
		"Target bitrate in kbps (H.264 only)":                               "目標ビットレート kbps（H.264のみ）",
		"Path to the ffmpeg executable":                                     "ffmpeg実行ファイルのパス",
		"Draw the source file name on each frame":                           "各フレームに元のファイル名を描画",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力先ディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Log format (console, json)":           "ログ形式（console, json）",
		"Suppress all log output":              "ログ出力を抑制",
	})
}
