package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"yashubustudio/ideagen/generator"
)

const logDebounceInterval = 150 * time.Millisecond

type uiState struct {
	cfg        generator.Config
	configPath string
	cfgMu      sync.Mutex

	w fyne.Window

	apiKey      *widget.Entry
	query       *widget.Entry
	productType *widget.Entry
	fileLabel   *widget.Label
	filePath    string

	topNLabel    *widget.Label
	retriesLabel *widget.Label
	backoffLabel *widget.Label

	startBtn  *widget.Button
	fileBtn   *widget.Button
	saveImage *widget.Button

	progress     *widget.ProgressBar
	status       *widget.Label
	statusBind   binding.String
	progressBind binding.Float

	logPane     *widget.Entry
	logBind     binding.String
	logLines    []string
	logMu       sync.Mutex
	logUpdateCh chan struct{}

	scoreTable *widget.Table
	topRows    []generator.PatentRow
	rowsMu     sync.Mutex

	solutionView *widget.Entry
	imageBox     *fyne.Container
	imageStatus  *widget.Label

	productImage *generator.ProductImage
	imageMu      sync.Mutex
}

func buildUI(a fyne.App, cfg generator.Config, configPath string) *uiState {
	u := &uiState{cfg: cfg, configPath: configPath}
	u.w = a.NewWindow("Idea AI Generator II")

	u.statusBind = binding.NewString()
	_ = u.statusBind.Set(stageIdle.label())
	u.progressBind = binding.NewFloat()
	u.logBind = binding.NewString()
	u.startLogUpdater()

	u.apiKey = widget.NewPasswordEntry()
	u.apiKey.SetPlaceHolder("Google Gemini APIキー")

	u.query = widget.NewEntry()
	u.query.SetText(cfg.Query)
	u.query.SetPlaceHolder("あなたのニーズを入力してください")

	u.productType = widget.NewEntry()
	u.productType.SetText(cfg.ProductType)
	u.productType.SetPlaceHolder("製品カテゴリ（例：飲料、食品、電子機器、化粧品など）")

	u.fileLabel = widget.NewLabel("ファイル未選択")
	u.fileBtn = widget.NewButtonWithIcon("特許データベース読込", theme.FolderOpenIcon(), func() { u.onPickFile() })

	topNSlider := widget.NewSlider(5, 50)
	topNSlider.Step = 1
	topNSlider.SetValue(float64(cfg.TopN))
	u.topNLabel = widget.NewLabel(fmt.Sprintf("抽出する関連特許数: %d", cfg.TopN))
	topNSlider.OnChanged = func(v float64) {
		u.updateConfig(func(c *generator.Config) { c.TopN = int(v) })
		u.topNLabel.SetText(fmt.Sprintf("抽出する関連特許数: %d", int(v)))
	}

	retriesSlider := widget.NewSlider(1, 10)
	retriesSlider.Step = 1
	retriesSlider.SetValue(float64(cfg.MaxRetries))
	u.retriesLabel = widget.NewLabel(fmt.Sprintf("API最大リトライ回数: %d", cfg.MaxRetries))
	retriesSlider.OnChanged = func(v float64) {
		u.updateConfig(func(c *generator.Config) { c.MaxRetries = int(v) })
		u.retriesLabel.SetText(fmt.Sprintf("API最大リトライ回数: %d", int(v)))
	}

	backoffSlider := widget.NewSlider(1, 10)
	backoffSlider.Step = 1
	backoffSlider.SetValue(float64(cfg.BackoffSeconds))
	u.backoffLabel = widget.NewLabel(fmt.Sprintf("初期バックオフ時間: %d秒", cfg.BackoffSeconds))
	backoffSlider.OnChanged = func(v float64) {
		u.updateConfig(func(c *generator.Config) { c.BackoffSeconds = int(v) })
		u.backoffLabel.SetText(fmt.Sprintf("初期バックオフ時間: %d秒", int(v)))
	}

	u.startBtn = widget.NewButtonWithIcon("分析開始", theme.MediaPlayIcon(), func() { u.onStart() })
	u.startBtn.Importance = widget.HighImportance

	u.status = widget.NewLabelWithData(u.statusBind)
	u.progress = widget.NewProgressBarWithData(u.progressBind)
	u.progress.Hide()

	u.logPane = widget.NewEntryWithData(u.logBind)
	u.logPane.MultiLine = true
	u.logPane.Wrapping = fyne.TextWrapWord
	u.logPane.SetPlaceHolder("処理ログ")
	u.logPane.Disable()

	u.scoreTable = widget.NewTable(
		func() (int, int) {
			u.rowsMu.Lock()
			defer u.rowsMu.Unlock()
			return len(u.topRows) + 1, 2
		},
		func() fyne.CanvasObject {
			lbl := widget.NewLabel("")
			lbl.Wrapping = fyne.TextWrapWord
			return lbl
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.Alignment = fyne.TextAlignCenter
				if id.Col == 0 {
					lbl.SetText("要約")
				} else {
					lbl.SetText("関連度")
				}
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			lbl.Alignment = fyne.TextAlignLeading
			u.rowsMu.Lock()
			defer u.rowsMu.Unlock()
			rowIdx := id.Row - 1
			if rowIdx >= len(u.topRows) {
				lbl.SetText("")
				return
			}
			row := u.topRows[rowIdx]
			if id.Col == 0 {
				lbl.SetText(truncateCell(row.Abstract, 120))
			} else {
				lbl.SetText(fmt.Sprintf("%.1f", row.Relevance))
			}
		},
	)
	u.scoreTable.SetColumnWidth(0, 560)
	u.scoreTable.SetColumnWidth(1, 90)
	u.scoreTable.OnSelected = func(id widget.TableCellID) {
		if id.Row <= 0 {
			return
		}
		u.rowsMu.Lock()
		defer u.rowsMu.Unlock()
		if id.Row-1 < len(u.topRows) {
			row := u.topRows[id.Row-1]
			dialog.ShowInformation("詳細",
				fmt.Sprintf("関連度: %.1f\nモデル回答: %s\n\n要約:\n%s", row.Relevance, row.RelevanceRaw, row.Abstract), u.w)
		}
	}

	u.solutionView = widget.NewMultiLineEntry()
	u.solutionView.Wrapping = fyne.TextWrapWord
	u.solutionView.SetPlaceHolder("ソリューション案はここに表示されます")
	u.solutionView.Disable()

	u.imageStatus = widget.NewLabel("製品イメージはここに表示されます")
	u.saveImage = widget.NewButtonWithIcon("製品画像をダウンロード", theme.DocumentSaveIcon(), func() { u.onSaveImage() })
	u.saveImage.Disable()
	u.imageBox = container.NewStack()

	tabs := container.NewAppTabs(
		container.NewTabItem("関連度評価", u.scoreTable),
		container.NewTabItem("ソリューション案", container.NewScroll(u.solutionView)),
		container.NewTabItem("製品イメージ", container.NewBorder(u.imageStatus, u.saveImage, nil, nil, u.imageBox)),
	)

	settings := container.NewVBox(
		widget.NewLabelWithStyle("設定", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.apiKey,
		container.NewHBox(u.fileBtn, u.fileLabel),
		widget.NewSeparator(),
		u.topNLabel, topNSlider,
		u.retriesLabel, retriesSlider,
		u.backoffLabel, backoffSlider,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("ソリューション生成", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.query,
		u.productType,
		u.startBtn,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("進捗", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		u.progress,
		u.status,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("ログ", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewStack(u.logPane),
	)

	split := container.NewHSplit(settings, tabs)
	split.Offset = 0.35
	u.w.SetContent(split)
	u.w.Resize(fyne.NewSize(1180, 760))
	return u
}

func (u *uiState) updateConfig(mutate func(*generator.Config)) {
	u.cfgMu.Lock()
	mutate(&u.cfg)
	u.cfg.ApplyDefaults()
	local := u.cfg.Clone()
	u.cfgMu.Unlock()
	if err := generator.SaveConfig(u.configPath, local); err != nil {
		u.appendLog(fmt.Sprintf("設定の保存に失敗しました: %v", err))
	}
}

func (u *uiState) currentConfig() generator.Config {
	u.cfgMu.Lock()
	defer u.cfgMu.Unlock()
	return u.cfg.Clone()
}

func (u *uiState) onPickFile() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			u.showError(err)
			return
		}
		if rc == nil {
			return
		}
		defer rc.Close()
		u.filePath = rc.URI().Path()
		u.fileLabel.SetText(truncateCell(rc.URI().Name(), 40))
		u.appendLog(fmt.Sprintf("ファイル選択: %s", u.filePath))
	}, u.w)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx", ".csv", ".tsv"}))
	fd.Show()
}

func (u *uiState) onStart() {
	apiKey := strings.TrimSpace(u.apiKey.Text)
	path := u.filePath
	if path == "" {
		u.showError(generator.ErrMissingFile)
		return
	}
	if apiKey == "" {
		u.showError(generator.ErrMissingAPIKey)
		return
	}

	u.updateConfig(func(c *generator.Config) {
		c.Query = strings.TrimSpace(u.query.Text)
		c.ProductType = strings.TrimSpace(u.productType.Text)
	})
	cfg := u.currentConfig()

	u.setBusy(true)
	u.resetResults()
	go u.runPipeline(cfg, apiKey, path)
}

// runPipeline drives one run through the stage machine. It owns the whole
// sequence on a background goroutine; every stage failure lands in fail()
// and halts the stages after it.
func (u *uiState) runPipeline(cfg generator.Config, apiKey, path string) {
	ctx := context.Background()
	run := cfg.RunConfig(apiKey)
	start := time.Now()

	fail := func(err error) {
		u.setStage(stageFailed)
		u.appendLog(fmt.Sprintf("エラー: %v", err))
		u.hideProgress()
		u.setBusy(false)
		fyne.Do(func() {
			dialog.ShowError(err, u.w)
		})
	}

	u.setStage(stageLoading)
	table, err := generator.LoadPatentTable(path, generator.LoadOptions{AbstractColumn: cfg.AbstractColumn})
	if err != nil {
		fail(err)
		return
	}
	u.appendLog(fmt.Sprintf("データの読み込みに成功しました。行数: %d行", table.Len()))

	logger := log.New(io.MultiWriter(os.Stdout, uiLogWriter{u}), "", log.LstdFlags)
	svc, err := generator.NewGeminiService(ctx, cfg, apiKey, logger)
	if err != nil {
		fail(err)
		return
	}

	u.setStage(stageScoring)
	eligible := table.EligibleCount()
	u.configureProgress(0, float64(eligible))
	u.setProgressValue(0)
	u.showProgress()
	scored, err := svc.ScoreAll(ctx, table, run, func(done, total int) {
		u.setProgressValue(float64(done))
		u.setStatus(fmt.Sprintf("進捗: %d/%d 特許要約を評価中...", done, total))
	})
	if err != nil {
		fail(err)
		return
	}
	u.hideProgress()

	u.setStage(stageSelecting)
	top := generator.TopN(scored, run.TopN)
	u.publishRows(top)
	u.appendLog(fmt.Sprintf("関連度上位%d件を抽出しました", len(top)))

	u.setStage(stageSynthesizing)
	solution, err := svc.Synthesize(ctx, top, run)
	if err != nil {
		fail(err)
		return
	}
	fyne.Do(func() {
		u.solutionView.SetText(solution.Narrative)
	})

	u.setStage(stageImageGenerating)
	img, err := svc.GenerateImage(ctx, solution, run)
	if err != nil {
		if errors.Is(err, generator.ErrNoImage) || errors.Is(err, generator.ErrNoNarrative) {
			u.appendLog(err.Error())
			fyne.Do(func() {
				u.imageStatus.SetText("画像の生成に失敗しました。")
			})
		} else {
			fail(err)
			return
		}
	} else {
		u.publishImage(img)
	}

	u.setStage(stageDone)
	u.setStatus(fmt.Sprintf("完了 (%.1fs)", time.Since(start).Seconds()))
	u.appendLog(fmt.Sprintf("分析完了 (%.1fs)", time.Since(start).Seconds()))
	u.setBusy(false)
}

func (u *uiState) resetResults() {
	u.rowsMu.Lock()
	u.topRows = nil
	u.rowsMu.Unlock()
	u.imageMu.Lock()
	u.productImage = nil
	u.imageMu.Unlock()
	fyne.Do(func() {
		u.scoreTable.Refresh()
		u.solutionView.SetText("")
		u.imageBox.RemoveAll()
		u.imageStatus.SetText("製品イメージはここに表示されます")
		u.saveImage.Disable()
	})
}

func (u *uiState) publishRows(rows []generator.PatentRow) {
	u.rowsMu.Lock()
	u.topRows = rows
	u.rowsMu.Unlock()
	fyne.Do(func() {
		u.scoreTable.Refresh()
	})
}

func (u *uiState) publishImage(img *generator.ProductImage) {
	u.imageMu.Lock()
	u.productImage = img
	u.imageMu.Unlock()
	preview := img.HalfSize()
	fyne.Do(func() {
		im := canvas.NewImageFromImage(preview)
		im.FillMode = canvas.ImageFillContain
		im.SetMinSize(fyne.NewSize(480, 360))
		u.imageBox.RemoveAll()
		u.imageBox.Add(im)
		u.imageStatus.SetText("クリックでダウンロードできます（元解像度で保存されます）")
		u.saveImage.Enable()
	})
}

func (u *uiState) onSaveImage() {
	u.imageMu.Lock()
	img := u.productImage
	u.imageMu.Unlock()
	if img == nil {
		return
	}
	fd := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
		if err != nil || uc == nil {
			return
		}
		defer uc.Close()
		data, err := img.PNGBytes()
		if err != nil {
			u.showError(err)
			return
		}
		if _, err := uc.Write(data); err != nil {
			u.showError(fmt.Errorf("画像の保存に失敗しました: %w", err))
			return
		}
		u.appendLog(fmt.Sprintf("製品画像を保存しました: %s", uc.URI().Path()))
	}, u.w)
	fd.SetFileName("product_solution_image.png")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png"}))
	fd.Show()
}

func (u *uiState) setBusy(b bool) {
	fyne.Do(func() {
		if b {
			u.startBtn.Disable()
			u.fileBtn.Disable()
		} else {
			u.startBtn.Enable()
			u.fileBtn.Enable()
		}
	})
}

func (u *uiState) setStage(s runStage) {
	u.setStatus(s.label())
	if s != stageIdle && s != stageDone && s != stageFailed {
		u.appendLog(s.label())
	}
}

func (u *uiState) setStatus(text string) {
	_ = u.statusBind.Set(text)
}

func (u *uiState) configureProgress(min, max float64) {
	fyne.Do(func() {
		u.progress.Min = min
		u.progress.Max = max
	})
}

func (u *uiState) setProgressValue(value float64) {
	_ = u.progressBind.Set(value)
}

func (u *uiState) showProgress() {
	fyne.Do(func() {
		u.progress.Show()
	})
}

func (u *uiState) hideProgress() {
	fyne.Do(func() {
		u.progress.Hide()
	})
}

func (u *uiState) showError(err error) {
	if err != nil {
		dialog.ShowError(err, u.w)
	}
}

func (u *uiState) appendLog(msg string) {
	now := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", now, msg)

	u.logMu.Lock()
	u.logLines = append(u.logLines, line)
	if len(u.logLines) > 200 {
		u.logLines = u.logLines[len(u.logLines)-200:]
	}
	u.logMu.Unlock()

	if u.logUpdateCh == nil {
		u.flushLog()
		return
	}
	select {
	case u.logUpdateCh <- struct{}{}:
	default:
	}
}

func (u *uiState) startLogUpdater() {
	if u.logUpdateCh != nil {
		return
	}
	u.logUpdateCh = make(chan struct{}, 1)
	go u.logUpdateLoop()
}

func (u *uiState) logUpdateLoop() {
	timer := time.NewTimer(logDebounceInterval)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-u.logUpdateCh:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(logDebounceInterval)
		case <-timer.C:
			u.flushLog()
		}
	}
}

func (u *uiState) flushLog() {
	u.logMu.Lock()
	text := strings.Join(u.logLines, "\n")
	u.logMu.Unlock()
	_ = u.logBind.Set(text)
}

// uiLogWriter lets the generator service's log.Logger feed the UI pane.
type uiLogWriter struct {
	u *uiState
}

func (w uiLogWriter) Write(p []byte) (int, error) {
	for _, part := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if part != "" {
			w.u.appendLog(part)
		}
	}
	return len(p), nil
}
