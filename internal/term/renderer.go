package term

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/gdamore/tcell/v2"

	"starduel/internal/game"
	"starduel/internal/physics"
)

const starCount = 60

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

type sprite struct {
	kind   game.HandleKind
	player int
	pos    physics.Vec2
	angle  float64
}

type star struct {
	x, y float64 // arena fraction in [0,1)
}

var (
	wallStyle  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	starStyle  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	enemyStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	// slotColors gives each player slot its ship and score colour.
	slotColors = [game.PlayerCount]tcell.Color{tcell.ColorAqua, tcell.ColorYellow}

	// shipGlyphs point the ship in eight directions, clockwise from up.
	shipGlyphs = []rune{'^', '/', '>', '\\', 'v', '/', '<', '\\'}
)

// Renderer draws the arena in a terminal. It keeps the latest transform of
// every handle and repaints the whole canvas on Draw. It is meant to be
// used from the game loop goroutine only.
type Renderer struct {
	canvas Canvas
	width  float64
	height float64

	sprites map[physics.BodyID]*sprite
	scores  [game.PlayerCount]int
	stars   []star
}

// NewRenderer creates a renderer for an arena of the given size.
func NewRenderer(canvas Canvas, width, height float64, rng *rand.Rand) *Renderer {
	r := &Renderer{
		canvas:  canvas,
		width:   width,
		height:  height,
		sprites: make(map[physics.BodyID]*sprite),
		stars:   make([]star, starCount),
	}
	for i := range r.stars {
		r.stars[i] = star{x: rng.Float64(), y: rng.Float64()}
	}
	return r
}

// AddHandle starts drawing a body.
func (r *Renderer) AddHandle(h game.Handle) {
	r.sprites[h.ID] = &sprite{kind: h.Kind, player: h.Player}
}

// RemoveHandle stops drawing a body.
func (r *Renderer) RemoveHandle(id physics.BodyID) {
	delete(r.sprites, id)
}

// UpdateHandle records the latest transform of a body.
func (r *Renderer) UpdateHandle(id physics.BodyID, pos physics.Vec2, rotation float64) {
	s, ok := r.sprites[id]
	if !ok {
		return
	}
	s.pos = pos
	s.angle = rotation
}

// SetScore updates the score text of a slot.
func (r *Renderer) SetScore(slot, score int) {
	if slot < 0 || slot >= len(r.scores) {
		return
	}
	r.scores[slot] = score
}

// Draw paints walls, stars, enemies, the ship and the scores.
func (r *Renderer) Draw() {
	w, h := r.canvas.Size()
	if w < 3 || h < 3 {
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.canvas.SetContent(x, y, ' ', nil, tcell.StyleDefault)
		}
	}
	r.drawWalls(w, h)

	for _, s := range r.stars {
		x := 1 + int(s.x*float64(w-2))
		y := 1 + int(s.y*float64(h-2))
		r.canvas.SetContent(x, y, '.', nil, starStyle)
	}

	// Enemies first so the ship stays visible on top. Ids keep the draw
	// order stable between frames.
	ids := make([]physics.BodyID, 0, len(r.sprites))
	for id := range r.sprites {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if s := r.sprites[id]; s.kind == game.HandleEnemy {
			x, y := r.Cell(s.pos, w, h)
			r.canvas.SetContent(x, y, 'o', nil, enemyStyle)
		}
	}
	for _, id := range ids {
		if s := r.sprites[id]; s.kind == game.HandleShip {
			x, y := r.Cell(s.pos, w, h)
			r.canvas.SetContent(x, y, ShipGlyph(s.angle), nil, shipStyle(s.player))
		}
	}

	r.drawScores(w)
}

func (r *Renderer) drawWalls(w, h int) {
	for x := 1; x < w-1; x++ {
		r.canvas.SetContent(x, 0, tcell.RuneHLine, nil, wallStyle)
		r.canvas.SetContent(x, h-1, tcell.RuneHLine, nil, wallStyle)
	}
	for y := 1; y < h-1; y++ {
		r.canvas.SetContent(0, y, tcell.RuneVLine, nil, wallStyle)
		r.canvas.SetContent(w-1, y, tcell.RuneVLine, nil, wallStyle)
	}
	r.canvas.SetContent(0, 0, tcell.RuneULCorner, nil, wallStyle)
	r.canvas.SetContent(w-1, 0, tcell.RuneURCorner, nil, wallStyle)
	r.canvas.SetContent(0, h-1, tcell.RuneLLCorner, nil, wallStyle)
	r.canvas.SetContent(w-1, h-1, tcell.RuneLRCorner, nil, wallStyle)
}

// drawScores writes one label per slot on the top wall, left and right.
func (r *Renderer) drawScores(w int) {
	left := ScoreLabel(0, r.scores[0])
	right := ScoreLabel(1, r.scores[1])
	r.text(2, 0, left, shipStyle(0))
	r.text(w-2-len(right), 0, right, shipStyle(1))
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, c := range s {
		r.canvas.SetContent(x+i, y, c, nil, style)
	}
}

// Cell maps an arena position to a cell inside the walls of a w×h canvas.
func (r *Renderer) Cell(pos physics.Vec2, w, h int) (int, int) {
	return scale(pos.X, r.width, w), scale(pos.Y, r.height, h)
}

// scale maps v in [0,size] onto the interior cells [1,cells-2].
func scale(v, size float64, cells int) int {
	inner := cells - 2
	c := 1 + int(v/size*float64(inner))
	if c < 1 {
		c = 1
	}
	if c > inner {
		c = inner
	}
	return c
}

// ShipGlyph picks the arrow closest to the ship's heading.
func ShipGlyph(angle float64) rune {
	step := math.Pi / 4
	i := int(math.Round(angle/step)) % len(shipGlyphs)
	if i < 0 {
		i += len(shipGlyphs)
	}
	return shipGlyphs[i]
}

// ScoreLabel formats the score text of a slot.
func ScoreLabel(slot, score int) string {
	return fmt.Sprintf(" P%d: %d ", slot, score)
}

func shipStyle(slot int) tcell.Style {
	if slot < 0 || slot >= len(slotColors) {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(slotColors[slot]).Bold(true)
}
