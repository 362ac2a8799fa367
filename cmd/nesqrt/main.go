// Package main implements the nesqrt NES emulator executable: an ebiten
// host loop around the internal/console driver.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nesqrt/internal/cartridge"
	"nesqrt/internal/console"
	"nesqrt/internal/input"
)

const buildVersion = "0.1.0"

const (
	screenWidth  = 256
	screenHeight = 240
)

func main() {
	var (
		romFile    = flag.String("rom", "", "Path to NES ROM file")
		configFile = flag.String("config", "", "Optional JSON config file overriding window scale / ROM / start PC")
		debug      = flag.Bool("debug", false, "Enable debug logging")
		nogui      = flag.Bool("nogui", false, "Run headless: step a fixed number of frames and exit")
		frames     = flag.Int("frames", 60, "Frame count for -nogui mode")
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *help {
		printUsage()
		return
	}
	if *version {
		fmt.Printf("nesqrt %s\n", buildVersion)
		return
	}

	cfg, err := loadRunConfig(*configFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	rom := *romFile
	if rom == "" {
		rom = cfg.ROM
	}
	if rom == "" {
		log.Fatal("a ROM file is required: nesqrt -rom game.nes")
	}

	cart, err := cartridge.LoadFromFile(rom)
	if err != nil {
		log.Fatalf("loading %s: %v", rom, err)
	}

	c := console.New(cart)
	if cfg.StartPC != nil {
		c.OverridePC(*cfg.StartPC)
	}
	setupGracefulShutdown()

	if *nogui {
		runHeadless(c, *frames, *debug)
		return
	}

	game := &Game{console: c}
	ebiten.SetWindowSize(screenWidth*cfg.WindowScale, screenHeight*cfg.WindowScale)
	ebiten.SetWindowTitle(fmt.Sprintf("nesqrt - %s", rom))
	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("ebiten run failed: %v", err)
	}
}

func runHeadless(c *console.Console, frameCount int, debug bool) {
	for i := 0; i < frameCount; i++ {
		if _, err := c.NextFrame(); err != nil {
			log.Fatalf("frame %d: %v", i, err)
		}
		if debug && i%30 == 0 {
			fmt.Printf("frame %d/%d\n", i, frameCount)
		}
	}
	fmt.Printf("ran %d frames\n", frameCount)
}

// Game adapts Console to the ebiten.Game interface.
type Game struct {
	console *console.Console
	image   *ebiten.Image

	rewindHeld bool
}

var keyMap = map[ebiten.Key]input.Button{
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyShift:      input.ButtonSelect,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
}

func (g *Game) Update() error {
	var mask uint8
	for key, button := range keyMap {
		if ebiten.IsKeyPressed(key) {
			mask |= uint8(button)
		}
	}
	g.console.UpdateButtons(mask)

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		g.rewindHeld = true
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyBackspace) {
		g.rewindHeld = false
	}

	if g.rewindHeld {
		if _, ok := g.console.Rewind(); !ok {
			g.rewindHeld = false
		}
		return nil
	}

	_, err := g.console.NextFrame()
	return err
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.image == nil {
		g.image = ebiten.NewImage(screenWidth, screenHeight)
	}
	nesScreen := g.console.Screen()

	pix := make([]byte, screenWidth*screenHeight*4)
	for y := 0; y < screenHeight; y++ {
		for x := 0; x < screenWidth; x++ {
			rgb := nesPalette[nesScreen.Pixels[y][x]&0x3F]
			offset := (y*screenWidth + x) * 4
			pix[offset], pix[offset+1], pix[offset+2], pix[offset+3] = rgb[0], rgb[1], rgb[2], 0xFF
		}
	}
	g.image.ReplacePixels(pix)
	screen.DrawImage(g.image, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("interrupt received, shutting down")
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("nesqrt - NES emulator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  nesqrt -rom <file> [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS:")
	fmt.Println("  Arrow keys - D-Pad       Z - A       X - B")
	fmt.Println("  Enter      - Start       Shift - Select")
	fmt.Println("  Backspace (hold) - Rewind")
}
