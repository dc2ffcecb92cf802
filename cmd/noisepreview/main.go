// Noise preview tool - live simplex and white noise tuning with sliders.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/noisetex/generation"
	"github.com/pthm-cable/noisetex/noise"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	gridSize     = 256
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultPreviewParams()

	img := rl.GenImageColor(gridSize, gridSize, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	rl.SetTextureFilter(texture, rl.FilterPoint)

	pixels := make([]color.RGBA, gridSize*gridSize)
	needsRegen := true
	var mean float64

	for !rl.WindowShouldClose() {
		if needsRegen {
			var err error
			if mean, err = fillPreview(pixels, params); err != nil {
				slog.Error("preview generation failed", "error", err)
			}
			rl.UpdateTexture(texture, pixels)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridSize, Height: gridSize},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Mean: %.3f", mean), 15, previewSize+25, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Noise Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		active := int32(1)
		if params.Simplex {
			active = 0
		}
		if sel := gui.ToggleGroup(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 24}, "Simplex;White", active); sel != active {
			params.Simplex = sel == 0
			needsRegen = true
		}
		panelY += 40

		if params.Simplex {
			rl.DrawText("Scale (pixels per noise unit)", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newScale := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"1", "300",
				params.Scale, 1, 300,
			)
			rl.DrawText(fmt.Sprintf("%.1f", params.Scale), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newScale != params.Scale {
				params.Scale = newScale
				needsRegen = true
			}
			panelY += 35
		} else {
			rl.DrawText("Black probability", int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			newProb := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"0", "1",
				params.BlackProbability, 0, 1,
			)
			rl.DrawText(fmt.Sprintf("%.2f", params.BlackProbability), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if newProb != params.BlackProbability {
				params.BlackProbability = newProb
				needsRegen = true
			}
			panelY += 35
		}

		rl.DrawText("Seed", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newSeed := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"1", "99999",
			float32(params.Seed), 1, 99999,
		)
		rl.DrawText(fmt.Sprintf("%d", params.Seed), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if int64(newSeed) != params.Seed {
			params.Seed = int64(newSeed)
			needsRegen = true
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(1, 99999))
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultPreviewParams()
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		block, err := defaultsBlock(params)
		if err != nil {
			block = err.Error()
		}
		rl.DrawText(block, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) && err == nil {
			rl.SetClipboardText(block)
		}

		rl.EndDrawing()
	}
}

// fillPreview samples the selected algorithm into pixels and returns the
// mean red channel in [0,1].
func fillPreview(pixels []color.RGBA, p PreviewParams) (float64, error) {
	var sampler generation.Sampler
	if p.Simplex {
		s, err := noise.NewSimplex(float64(p.Scale), p.Seed)
		if err != nil {
			return 0, err
		}
		sampler = s
	} else {
		w, err := noise.NewWhite(float64(p.BlackProbability), p.Seed)
		if err != nil {
			return 0, err
		}
		sampler = w
	}

	var sum float64
	for y := 0; y < gridSize; y++ {
		for x := 0; x < gridSize; x++ {
			c := sampler.Sample(x, y)
			pixels[y*gridSize+x] = c
			sum += float64(c.R) / 255
		}
	}
	return sum / float64(len(pixels)), nil
}
