package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Job level messages (info)
		"Starting %s job": "%s ジョブを開始します",
		"Finished: %d videos written, %d failed, %d frames skipped": "完了: 動画 %d 本を出力, 失敗 %d 本, スキップしたフレーム %d 枚",
		"Interrupted after %d of %d sequences":                      "%d / %d シーケンスで中断されました",
		"No frames found, nothing to encode":                        "フレームが見つからないため、エンコードするものがありません",
		"Interrupted, shutting down...":                             "中断されました。シャットダウン中...",
		"Summary written to %s":                                     "サマリーを %s に書き出しました",
		"Failed to write summary: %v":                               "サマリーの書き出しに失敗しました: %v",

		// Catalog stage
		"Directory not found, skipping: %s": "ディレクトリが見つかりません。スキップします: %s",
		"Scanned %s: %d frames, %d ignored, %d unrecognised": "%s をスキャンしました: %d フレーム, 対象外 %d 件, 認識できない名前 %d 件",
		"Found %d groups: %s":               "%d グループを検出しました: %s",
		"Unrecognised file name: %s":        "認識できないファイル名: %s",
		"Listed %d images in %s":            "%d 枚の画像を %s で検出しました",
		"Found %d train and %d test images": "学習用 %d 枚、テスト用 %d 枚の画像を検出しました",

		// Compose stage
		"Composed %d sequences (%d frames) with policy %s": "ポリシー %[3]s で %[1]d シーケンス (%[2]d フレーム) を構成しました",
		"Sequence %s: %d frames":                           "シーケンス %s: %d フレーム",

		// Assemble stage
		"Sequence %s has no frames, skipping":      "シーケンス %s にフレームがありません。スキップします",
		"Encoding %s: %d frames at %dx%d, %.2f fps": "%s をエンコード中: %d フレーム, %dx%d, %.2f fps",
		"Skipping unreadable frame %s: %v":         "読み込めないフレームをスキップします %s: %v",
		"Resizing %s from %dx%d to %dx%d":          "%s を %dx%d から %dx%d にリサイズします",
		"Wrote %s: %d frames (%d skipped)":         "%s を書き出しました: %d フレーム (スキップ %d)",

		// Worker pool
		"Encoding %d sequences with %d workers": "%d シーケンスを %d ワーカーでエンコード中",
		"Sequence %s failed: %v":                "シーケンス %s が失敗しました: %v",

		// Encoder selection
		"H.264 encoder not available, falling back to MJPEG": "H.264 エンコーダーが利用できないため、MJPEG にフォールバックします",
		"Using %s encoder (%s)":                              "%s エンコーダーを使用します (%s)",

		// Debug output
		"Failed to save debug output: %v": "デバッグ出力の保存に失敗しました: %v",
	})
}
