package mission

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pixil98/go-rogue/internal/coords"
	"github.com/pixil98/go-rogue/internal/game"
	"github.com/pixil98/go-rogue/internal/overmap"
	"github.com/pixil98/go-rogue/internal/storage"
	"github.com/pixil98/go-rogue/internal/tinymap"
)

// StartFunc runs once at mission acceptance. Failures inside a start
// procedure are logged and abandoned; they never propagate to the caller.
type StartFunc func(*Context, *Mission)

// Registry maps mission-start procedure names to their implementations.
type Registry map[string]StartFunc

// Register adds or replaces a named procedure.
func (r Registry) Register(name string, fn StartFunc) {
	r[name] = fn
}

// Get looks up a named procedure.
func (r Registry) Get(name string) (StartFunc, bool) {
	fn, ok := r[name]
	return fn, ok
}

// Creature types placed by the built-in procedures.
const (
	monDog          = "mon_dog"
	monJabberwock   = "mon_jabberwock"
	monZombie       = "mon_zombie"
	monZombieBrute  = "mon_zombie_brute"
	monZombieDog    = "mon_zombie_dog"
	monZombieHulk   = "mon_zombie_hulk"
	monZombieMaster = "mon_zombie_master"
	monZombieNecro  = "mon_zombie_necro"
)

const ranchSize = 5

// Builtins returns the registry of hand-written mission-start procedures.
func Builtins() Registry {
	return Registry{
		"standard":                  func(*Context, *Mission) {},
		"join":                      startJoin,
		"infect_npc":                startInfectNPC,
		"need_drugs_npc":            startNeedDrugsNPC,
		"place_dog":                 startPlaceDog,
		"place_zombie_mom":          startPlaceZombieMom,
		"place_jabberwock":          startPlaceJabberwock,
		"kill_nightmares":           startKillNightmares,
		"kill_horde_master":         startKillHordeMaster,
		"place_npc_software":        startPlaceNPCSoftware,
		"place_priest_diary":        startPlacePriestDiary,
		"place_deposit_box":         startPlaceDepositBox,
		"find_safety":               startFindSafety,
		"recruit_tracker":           startRecruitTracker,
		"ranch_nurse_1":             startRanchNurse1,
		"ranch_nurse_2":             startRanchNurse2,
		"ranch_nurse_3":             startRanchNurse3,
		"ranch_nurse_4":             startRanchNurse4,
		"ranch_nurse_5":             startRanchNurse5,
		"ranch_nurse_6":             startRanchNurse6,
		"ranch_nurse_7":             startRanchNurse7,
		"ranch_nurse_8":             startRanchNurse8,
		"ranch_nurse_9":             startRanchNurse9,
		"ranch_scavenger_1":         startRanchScavenger1,
		"ranch_scavenger_2":         startRanchScavenger2,
		"ranch_scavenger_3":         startRanchScavenger3,
		"reveal_refugee_center":     startRevealRefugeeCenter,
		"create_lab_console":        startCreateLabConsole,
		"create_hidden_lab_console": startCreateHiddenLabConsole,
		"create_ice_lab_console":    startCreateIceLabConsole,
		"reveal_lab_train_depot":    startRevealLabTrainDepot,
	}
}

// closeSession persists a session, logging instead of propagating; mission
// starts are fail-soft all the way down.
func closeSession(sess *tinymap.Session) {
	if err := sess.Save(); err != nil {
		slog.Warn("saving local area", "loc", sess.Loc(), "error", err)
	}
}

// randomHouseInCity selects a random house chunk within the city borders,
// falling back to the city center.
func randomHouseInCity(ctx *Context, city overmap.City) coords.Overmap {
	var valid []coords.Overmap
	for x := city.Center.X - city.Size; x <= city.Center.X+city.Size; x++ {
		for y := city.Center.Y - city.Size; y <= city.Center.Y+city.Size; y++ {
			c := coords.Overmap{X: x, Y: y, Z: city.Center.Z}
			if ctx.World.CheckOterType(overmap.TerHouse, c) {
				valid = append(valid, c)
			}
		}
	}
	if len(valid) == 0 {
		return city.Center
	}
	return valid[ctx.Rand.Intn(len(valid))]
}

func randomHouseInClosestCity(ctx *Context) coords.Overmap {
	city, ok := ctx.World.ClosestCity(ctx.Player.Pos)
	if !ok {
		slog.Warn("could not find closest city")
		return ctx.Player.Pos
	}
	return randomHouseInCity(ctx, city)
}

// targetClosestLabEntrance picks the nearer of the surface lab stairs and the
// spaces above hidden lab stairs, reveals around it and binds it.
func targetClosestLabEntrance(ctx *Context, origin coords.Overmap, revealRad int, m *Mission) (coords.Overmap, bool) {
	surface, surfOK := ctx.World.FindClosest(overmap.Query{Origin: origin.WithZ(0), Type: "lab_stairs"})
	underground, underOK := ctx.World.FindClosest(overmap.Query{Origin: origin.WithZ(-1), Type: "hidden_lab_stairs"})
	underground = underground.WithZ(0)

	var closest coords.Overmap
	switch {
	case surfOK && underOK:
		if coords.Dist(surface, origin) <= coords.Dist(underground, origin) {
			closest = surface
		} else {
			closest = underground
		}
	case surfOK:
		closest = surface
	case underOK:
		closest = underground
	default:
		slog.Warn("could not find lab entrance")
		return coords.Overmap{}, false
	}

	if revealRad >= 0 {
		ctx.World.Reveal(closest, revealRad)
	}
	m.SetTarget(closest)
	return closest, true
}

func startJoin(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	p.SetAttitude(game.AttitudeFollow)
}

func startInfectNPC(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	p.AddEffect("infection")
	// Make sure they don't have any antibiotics, and that they stay put.
	p.RemoveItemsWith(func(id string) bool { return id == "antibiotics" })
	p.GuardCurrentPos()
}

func startNeedDrugsNPC(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	// Make sure they don't already have the item they want from us.
	p.RemoveItemsWith(func(id string) bool { return id == m.ItemID })
	p.GuardCurrentPos()
}

func startPlaceDog(ctx *Context, m *Mission) {
	house := randomHouseInClosestCity(ctx)
	dev := ctx.NPCs.Find(m.NPCID)
	if dev == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	ctx.Player.AddItem("dog_whistle")
	ctx.Log.Addf("%s gave you a dog whistle.", dev.Name)

	m.SetTarget(house)
	ctx.World.Reveal(house, 6)

	sess, err := tinymap.Open(ctx.Tiles, house)
	if err != nil {
		slog.Warn("opening local area", "loc", house, "error", err)
		return
	}
	defer closeSession(sess)

	sess.AddSpawn(tinymap.Spawn{
		Type:      monDog,
		Count:     1,
		Pos:       coords.Tile{X: coords.SEEX, Y: coords.SEEY},
		Friendly:  true,
		MissionID: m.UID,
	})
}

var givenNames = []string{"Mary", "Dana", "Helen", "Rita", "Joan", "Vera"}

func startPlaceZombieMom(ctx *Context, m *Mission) {
	house := randomHouseInClosestCity(ctx)

	m.SetTarget(house)
	ctx.World.Reveal(house, 6)

	sess, err := tinymap.Open(ctx.Tiles, house)
	if err != nil {
		slog.Warn("opening local area", "loc", house, "error", err)
		return
	}
	defer closeSession(sess)

	sess.AddSpawn(tinymap.Spawn{
		Type:      monZombie,
		Count:     1,
		Pos:       coords.Tile{X: coords.SEEX, Y: coords.SEEY},
		Name:      givenNames[ctx.Rand.Intn(len(givenNames))],
		MissionID: m.UID,
	})
}

func startPlaceJabberwock(ctx *Context, m *Mission) {
	site, ok := TargetOmTer(ctx, overmap.TerForestThick, 6, m, false, 0)
	if !ok {
		return
	}

	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.AddSpawn(tinymap.Spawn{
		Type:      monJabberwock,
		Count:     1,
		Pos:       coords.Tile{X: coords.SEEX, Y: coords.SEEY},
		MissionID: m.UID,
	})
}

func startKillNightmares(ctx *Context, m *Mission) {
	TargetOmTer(ctx, "necropolis_c_44", 3, m, false, -2)
}

func startKillHordeMaster(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	p.SetAttitude(game.AttitudeFollow)

	// Pick one of the below locations for the horde to haunt.
	center := p.Pos
	site, ok := coords.Overmap{}, false
	for _, ter := range []string{"office_tower_1", "hotel_tower_1_8", "school_5", overmap.TerForestThick} {
		site, ok = ctx.World.FindClosest(overmap.Query{Origin: center, Type: ter})
		if ok {
			break
		}
	}
	if !ok {
		slog.Warn("could not find a place for the horde")
		return
	}

	m.SetTarget(site)
	ctx.World.Reveal(site, 6)

	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	center2 := coords.Tile{X: coords.SEEX, Y: coords.SEEY}
	sess.AddSpawn(tinymap.Spawn{Type: monZombieMaster, Count: 1, Pos: center2, Name: "Demonic Soul", MissionID: m.UID})
	sess.AddSpawn(tinymap.Spawn{Type: monZombieBrute, Count: 3, Pos: center2})
	sess.AddSpawn(tinymap.Spawn{Type: monZombieDog, Count: 3, Pos: center2})

	for x := coords.SEEX - 1; x <= coords.SEEX+1; x++ {
		for y := coords.SEEY - 1; y <= coords.SEEY+1; y++ {
			sess.AddSpawn(tinymap.Spawn{Type: monZombie, Count: ctx.rng(3, 10), Pos: coords.Tile{X: x, Y: y}})
		}
		sess.AddSpawn(tinymap.Spawn{Type: monZombieDog, Count: ctx.rng(0, 2), Pos: center2})
	}
	sess.AddSpawn(tinymap.Spawn{Type: monZombieNecro, Count: 2, Pos: center2})
	sess.AddSpawn(tinymap.Spawn{Type: monZombieHulk, Count: 1, Pos: center2})
}

func startPlaceNPCSoftware(ctx *Context, m *Mission) {
	dev := ctx.NPCs.Find(m.NPCID)
	if dev == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	ctx.Player.AddItem("usb_drive")
	ctx.Log.Addf("%s gave you a USB drive.", dev.Name)

	siteType := overmap.TerHouse
	switch dev.Class {
	case game.ClassHacker:
		m.ItemID = "software_hacking"
	case game.ClassDoctor:
		m.ItemID = "software_medical"
		siteType = "s_pharm"
		m.FollowUp = "MISSION_GET_ZOMBIE_BLOOD_ANAL"
	case game.ClassScientist:
		m.ItemID = "software_math"
	default:
		m.ItemID = "software_useless"
	}

	var place coords.Overmap
	if siteType == overmap.TerHouse {
		place = randomHouseInClosestCity(ctx)
	} else {
		var ok bool
		place, ok = ctx.World.FindClosest(overmap.Query{Origin: dev.Pos, Type: siteType})
		if !ok {
			slog.Warn("could not find software site", "terrain", siteType)
			return
		}
	}
	m.SetTarget(place)
	ctx.World.Reveal(place, 6)

	sess, err := tinymap.Open(ctx.Tiles, place)
	if err != nil {
		slog.Warn("opening local area", "loc", place, "error", err)
		return
	}
	defer closeSession(sess)

	comppoint := coords.Tile{X: coords.SEEX, Y: coords.SEEY}
	if ctx.World.CheckOterType(overmap.TerHouse, place) || ctx.World.CheckOterType("s_pharm", place) {
		comppoint = findConsolePoint(ctx.Rand, sess)
	}

	comp := sess.AddComputer(comppoint, fmt.Sprintf("%s's Terminal", dev.Name), 0)
	comp.MissionID = m.UID
	comp.AddOption("Download Software", tinymap.ActionDownloadSoftware, 0)
}

func startPlacePriestDiary(ctx *Context, m *Mission) {
	place := randomHouseInClosestCity(ctx)
	m.SetTarget(place)
	ctx.World.Reveal(place, 2)

	sess, err := tinymap.Open(ctx.Tiles, place)
	if err != nil {
		slog.Warn("opening local area", "loc", place, "error", err)
		return
	}
	defer closeSession(sess)

	var valid []coords.Tile
	for y := 0; y < coords.BlockY; y++ {
		for x := 0; x < coords.BlockX; x++ {
			t := coords.Tile{X: x, Y: y}
			switch sess.Furn(t) {
			case tinymap.FurnBed, tinymap.FurnDresser, tinymap.FurnIndoorPlant, tinymap.FurnCupboard:
				valid = append(valid, t)
			}
		}
	}

	point := coords.Tile{X: ctx.rng(6, coords.BlockX-7), Y: ctx.rng(6, coords.BlockY-7)}
	if len(valid) > 0 {
		point = valid[ctx.Rand.Intn(len(valid))]
	}
	sess.SpawnItem(point, "priest_diary", 1)
}

func startPlaceDepositBox(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	p.SetAttitude(game.AttitudeFollow)

	site, ok := ctx.World.FindClosest(overmap.Query{Origin: p.Pos, Type: "bank"})
	if !ok {
		site, ok = ctx.World.FindClosest(overmap.Query{Origin: p.Pos, Type: "office_tower_1"})
	}
	if !ok {
		site = p.Pos
		slog.Warn("could not find a place for deposit box")
	}

	m.SetTarget(site)
	ctx.World.Reveal(site, 2)

	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	var valid []coords.Tile
	for y := 0; y < coords.BlockY; y++ {
		for x := 0; x < coords.BlockX; x++ {
			t := coords.Tile{X: x, Y: y}
			if sess.Ter(t) != tinymap.TerFloor {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if sess.Ter(coords.Tile{X: x + dx, Y: y + dy}) == tinymap.TerWallMetal {
						valid = append(valid, t)
						dy, dx = 2, 2
					}
				}
			}
		}
	}

	point := coords.Tile{X: ctx.rng(6, coords.BlockX-7), Y: ctx.rng(6, coords.BlockY-7)}
	if len(valid) > 0 {
		point = valid[ctx.Rand.Intn(len(valid))]
	}
	sess.SpawnItem(point, "safe_box", 1)
}

func startFindSafety(ctx *Context, m *Mission) {
	place := ctx.Player.Pos
	for radius := 0; radius <= 20; radius++ {
		for dist := -radius; dist <= radius; dist++ {
			offset := ctx.Rand.Intn(4) // randomizes the direction we check first
			for i := 0; i <= 3; i++ {
				check := place
				switch (offset + i) % 4 {
				case 0:
					check = place.Add(dist, -radius)
				case 1:
					check = place.Add(dist, radius)
				case 2:
					check = place.Add(-radius, dist)
				case 3:
					check = place.Add(radius, dist)
				}
				if ctx.World.IsSafe(check) {
					m.SetTarget(check)
					return
				}
			}
		}
	}
	// Couldn't find safety; so just set the target to far away.
	switch ctx.Rand.Intn(4) {
	case 0:
		m.SetTarget(place.Add(-20, -20))
	case 1:
		m.SetTarget(place.Add(-20, 20))
	case 2:
		m.SetTarget(place.Add(20, -20))
	case 3:
		m.SetTarget(place.Add(20, 20))
	}
}

func startRecruitTracker(ctx *Context, m *Mission) {
	p := ctx.NPCs.Find(m.NPCID)
	if p == nil {
		slog.Warn("could not find mission npc", "npc", m.NPCID)
		return
	}
	p.SetAttitude(game.AttitudeFollow)

	site, ok := TargetOmTer(ctx, "cabin", 2, m, false, 0)
	if !ok {
		return
	}
	m.RecruitClass = game.ClassCowboy

	temp := buildTemplateNPC(ctx, "tracker", site)
	temp.SetAttitude(game.AttitudeTalk)
	temp.Job = "shopkeep"
	temp.Aggression--
	temp.Owed = 10
	temp.AddMission("MISSION_JOIN_TRACKER")
	ctx.NPCs.Insert(temp)
}

// buildTemplateNPC instantiates an NPC from the named template, or a plain
// stand-in when the catalog has no such template.
func buildTemplateNPC(ctx *Context, template string, pos coords.Overmap) *game.NPC {
	id := uuid.New().String()
	if ctx.NPCTemplates != nil {
		if t := ctx.NPCTemplates.Get(storage.Identifier(template)); t != nil {
			return t.Build(id, pos)
		}
	}
	slog.Warn("npc template not found, using stand-in", "template", template)
	return &game.NPC{ID: id, Name: "Stranger", Class: game.ClassCowboy, Attitude: game.AttitudeNeutral, Pos: pos}
}

// placeItemGroup fills a rectangle with loot from a named item group. Missing
// groups abort the placement with a diagnostic.
func placeItemGroup(ctx *Context, sess *tinymap.Session, group string, chance, x1, y1, x2, y2 int) {
	if ctx.ItemGroups == nil {
		slog.Warn("no item group catalog loaded", "group", group)
		return
	}
	g := ctx.ItemGroups.Get(storage.Identifier(group))
	if g == nil {
		slog.Warn("item group not found", "group", group)
		return
	}
	sess.PlaceItems(ctx.Rand, func() string { return g.Pick(ctx.Rand) }, chance, x1, y1, x2, y2)
}

func startRanchNurse1(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.DrawSquareFurn(tinymap.FurnRack, 16, 9, 17, 9)
	sess.SpawnItem(coords.Tile{X: 16, Y: 9}, "bandages", ctx.rng(1, 3))
	sess.SpawnItem(coords.Tile{X: 17, Y: 9}, "aspirin", ctx.rng(1, 2))
}

func startRanchNurse2(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.DrawSquareFurn(tinymap.FurnCounter, 3, 7, 5, 7)
	sess.DrawSquareFurn(tinymap.FurnRack, 8, 4, 8, 5)
	sess.SpawnItem(coords.Tile{X: 8, Y: 4}, "manual_first_aid", 1)
}

func startRanchNurse3(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.DrawSquareTer(tinymap.TerDirt, 2, 16, 9, 23)
		sess.DrawSquareTer(tinymap.TerDirt, 13, 16, 20, 23)
		sess.DrawSquareTer(tinymap.TerDirt, 10, 17, 12, 23)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.DrawSquareTer(tinymap.TerDirt, 2, 0, 20, 2)
	sess.DrawSquareTer(tinymap.TerDirt, 10, 3, 12, 4)
}

func startRanchNurse4(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.DrawSquareTer(tinymap.TerWallHalf, 2, 16, 9, 23)
		sess.DrawSquareTer(tinymap.TerDirt, 3, 17, 8, 22)
		sess.DrawSquareTer(tinymap.TerWallHalf, 13, 16, 20, 23)
		sess.DrawSquareTer(tinymap.TerDirt, 14, 17, 19, 22)
		sess.DrawSquareTer(tinymap.TerWallHalf, 10, 17, 12, 23)
		sess.DrawSquareTer(tinymap.TerDirt, 10, 18, 12, 23)
		sess.SetTer(coords.Tile{X: 9, Y: 19}, tinymap.TerDoorFrame)
		sess.SetTer(coords.Tile{X: 13, Y: 19}, tinymap.TerDoorFrame)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.DrawSquareTer(tinymap.TerWallHalf, 4, 0, 18, 2)
	sess.DrawSquareTer(tinymap.TerWallHalf, 10, 3, 12, 4)
	sess.DrawSquareTer(tinymap.TerDirt, 5, 0, 8, 2)
	sess.DrawSquareTer(tinymap.TerDirt, 10, 0, 12, 4)
	sess.DrawSquareTer(tinymap.TerDirt, 14, 0, 17, 2)
	sess.SetTer(coords.Tile{X: 9, Y: 1}, tinymap.TerDoorFrame)
	sess.SetTer(coords.Tile{X: 13, Y: 1}, tinymap.TerDoorFrame)
}

func startRanchNurse5(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.Translate(tinymap.TerWallHalf, tinymap.TerWallWood)
		sess.SetTer(coords.Tile{X: 2, Y: 21}, tinymap.TerWindowFrame)
		sess.SetTer(coords.Tile{X: 2, Y: 18}, tinymap.TerWindowFrame)
		sess.SetTer(coords.Tile{X: 20, Y: 18}, tinymap.TerWindowFrame)
		sess.SetTer(coords.Tile{X: 20, Y: 21}, tinymap.TerWindowFrame)
		sess.SetTer(coords.Tile{X: 11, Y: 17}, tinymap.TerWindowFrame)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.Translate(tinymap.TerWallHalf, tinymap.TerWallWood)
	sess.DrawSquareTer(tinymap.TerDirt, 10, 0, 12, 4)
}

func startRanchNurse6(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.Translate(tinymap.TerWindowFrame, tinymap.TerWindowBoarded)
		sess.Translate(tinymap.TerDoorFrame, tinymap.TerDoorClosed)
		sess.DrawSquareTer(tinymap.TerDirtFloor, 3, 17, 8, 22)
		sess.DrawSquareTer(tinymap.TerDirtFloor, 14, 17, 19, 22)
		sess.DrawSquareTer(tinymap.TerDirtFloor, 10, 18, 12, 23)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.Translate(tinymap.TerDoorFrame, tinymap.TerDoorClosed)
	sess.DrawSquareTer(tinymap.TerDirtFloor, 5, 0, 8, 2)
	sess.DrawSquareTer(tinymap.TerDirtFloor, 10, 0, 12, 4)
	sess.DrawSquareTer(tinymap.TerDirtFloor, 14, 0, 17, 2)
}

func startRanchNurse7(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.Translate(tinymap.TerDirtFloor, tinymap.TerFloor)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.Translate(tinymap.TerDirtFloor, tinymap.TerFloor)
	sess.DrawSquareTer(tinymap.TerFloor, 10, 5, 12, 5)
	sess.DrawSquareFurn(tinymap.FurnRack, 17, 0, 17, 2)
}

func startRanchNurse8(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 4, 21, 4, 22)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 7, 21, 7, 22)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 15, 21, 15, 22)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 18, 21, 18, 22)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 4, 17, 4, 18)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 7, 17, 7, 18)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 15, 17, 15, 18)
		sess.DrawSquareFurn(tinymap.FurnMakeshiftBed, 18, 17, 18, 18)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	sess.Translate(tinymap.TerDirtFloor, tinymap.TerFloor)
	placeItemGroup(ctx, sess, "cleaning", 75, 17, 0, 17, 2)
	placeItemGroup(ctx, sess, "surgery", 75, 15, 4, 18, 4)
}

func startRanchNurse9(ctx *Context, m *Mission) {
	// Improvements to clinic...
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_50", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		for _, x := range []int{3, 8, 14, 19} {
			sess.SetFurn(coords.Tile{X: x, Y: 22}, tinymap.FurnDresser)
			sess.SetFurn(coords.Tile{X: x, Y: 17}, tinymap.FurnDresser)
		}
		sess.PlaceNPC(coords.Tile{X: 16, Y: 19}, "ranch_doctor")
		closeSession(sess)
	}

	TargetOmTerRandom(ctx, "ranch_camp_59", 1, m, false, ranchSize, nil)
}

func startRanchScavenger1(ctx *Context, m *Mission) {
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_48", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.DrawSquareTer(tinymap.TerChainFence, 15, 13, 15, 22)
		sess.DrawSquareTer(tinymap.TerChainFence, 16, 13, 23, 13)
		sess.DrawSquareTer(tinymap.TerChainFence, 16, 22, 23, 22)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_49", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	placeItemGroup(ctx, sess, "mechanics", 65, 9, 13, 10, 16)
	sess.DrawSquareTer(tinymap.TerChainFence, 0, 22, 7, 22)
	sess.DrawSquareTer(tinymap.TerDirt, 2, 22, 3, 22)
	sess.SpawnItem(coords.Tile{X: 7, Y: 19}, "30gal_drum", 1)
}

func startRanchScavenger2(ctx *Context, m *Mission) {
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_48", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		// The wreck arrives as salvage.
		sess.SpawnItem(coords.Tile{X: 20, Y: 15}, "car_chassis", 1)
		sess.DrawSquareTer(tinymap.TerWallHalf, 18, 19, 21, 22)
		sess.DrawSquareTer(tinymap.TerDirt, 19, 20, 20, 21)
		sess.SetTer(coords.Tile{X: 19, Y: 19}, tinymap.TerDoorFrame)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_49", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	placeItemGroup(ctx, sess, "mischw", 65, 12, 13, 13, 16)
	sess.DrawSquareTer(tinymap.TerChainGate, 2, 22, 3, 22)
	sess.SpawnItem(coords.Tile{X: 7, Y: 20}, "30gal_drum", 1)
}

func startRanchScavenger3(ctx *Context, m *Mission) {
	site, ok := TargetOmTerRandom(ctx, "ranch_camp_48", 1, m, false, ranchSize, nil)
	if ok {
		sess, err := tinymap.Open(ctx.Tiles, site)
		if err != nil {
			slog.Warn("opening local area", "loc", site, "error", err)
			return
		}
		sess.Translate(tinymap.TerDoorFrame, tinymap.TerDoorLocked)
		sess.Translate(tinymap.TerWallHalf, tinymap.TerWallWood)
		sess.DrawSquareTer(tinymap.TerDirtFloor, 19, 20, 20, 21)
		sess.SpawnItem(coords.Tile{X: 16, Y: 21}, "wheel_wide", 1)
		sess.SpawnItem(coords.Tile{X: 17, Y: 21}, "wheel_wide", 1)
		sess.SpawnItem(coords.Tile{X: 23, Y: 18}, "v8_combustion", 1)
		sess.SetFurn(coords.Tile{X: 23, Y: 17}, tinymap.FurnArcadeMachine)
		sess.SetTer(coords.Tile{X: 23, Y: 16}, tinymap.TerMachineryLight)
		sess.SetFurn(coords.Tile{X: 20, Y: 21}, tinymap.FurnWoodstove)
		closeSession(sess)
	}

	site, ok = TargetOmTerRandom(ctx, "ranch_camp_49", 1, m, false, ranchSize, nil)
	if !ok {
		return
	}
	sess, err := tinymap.Open(ctx.Tiles, site)
	if err != nil {
		slog.Warn("opening local area", "loc", site, "error", err)
		return
	}
	defer closeSession(sess)

	placeItemGroup(ctx, sess, "mischw", 65, 2, 10, 4, 10)
	placeItemGroup(ctx, sess, "mischw", 65, 2, 13, 4, 13)
	sess.SetFurn(coords.Tile{X: 1, Y: 15}, tinymap.FurnFridge)
	sess.SpawnItem(coords.Tile{X: 2, Y: 15}, "hdframe", 1)
	sess.SetFurn(coords.Tile{X: 3, Y: 15}, tinymap.FurnWasher)
}

func startRevealRefugeeCenter(ctx *Context, m *Mission) {
	origin := ctx.Player.Pos
	reveal := 3
	target, ok := AssignTarget(ctx, TargetParams{
		OterType:          "evac_center_18",
		Special:           "evac_center",
		SearchOrigin:      &origin,
		SearchRange:       overmap.DefaultSearchRange * 5,
		RevealRadius:      &reveal,
		CreateIfNecessary: true,
	}, m)
	if !ok {
		ctx.Log.Addf("You don't know where the address could be...")
		return
	}

	if revealRoad(ctx, origin, target) {
		ctx.Log.Addf("You mark the refugee center and the road that leads to it...")
	} else {
		ctx.Log.Addf("You mark the refugee center, but you have no idea how to get there by road...")
	}
}

// createLabConsoles drops four consoles in lab spaces near place so the
// player can stumble upon one of them.
func createLabConsoles(ctx *Context, m *Mission, place coords.Overmap, otype string, security int, compName, downloadName string) {
	for i := 0; i < 4; i++ {
		omPlace, ok := TargetOmTerRandom(ctx, otype, -1, m, false, 4, &place)
		if !ok {
			return
		}

		sess, err := tinymap.Open(ctx.Tiles, omPlace)
		if err != nil {
			slog.Warn("opening local area", "loc", omPlace, "error", err)
			return
		}

		point := findConsolePoint(ctx.Rand, sess)
		comp := sess.AddComputer(point, compName, security)
		comp.MissionID = m.UID
		comp.AddOption(downloadName, tinymap.ActionDownloadSoftware, security)
		comp.AddFailure(tinymap.FailAlarm)
		comp.AddFailure(tinymap.FailDamage)
		comp.AddFailure(tinymap.FailManhacks)

		closeSession(sess)
	}
}

func startCreateLabConsole(ctx *Context, m *Mission) {
	// Pick a lab that has spaces on z = -1: e.g., in hidden labs.
	loc := ctx.Player.Pos.WithZ(-1)
	place, ok := ctx.World.FindClosest(overmap.Query{Origin: loc, Type: "lab"})
	if !ok {
		slog.Warn("could not find lab")
		return
	}

	createLabConsoles(ctx, m, place, "lab", 2, "Workstation", "Download Memory Contents")

	// Target the lab entrance.
	target, ok := targetClosestLabEntrance(ctx, place, 2, m)
	if ok {
		revealRoad(ctx, ctx.Player.Pos, target)
	}
}

func startCreateHiddenLabConsole(ctx *Context, m *Mission) {
	// Pick a hidden lab entrance, then go down one level to place consoles.
	loc := ctx.Player.Pos.WithZ(-1)
	place, ok := TargetOmTerRandom(ctx, "basement_hidden_lab_stairs", -1, m, false, 0, &loc)
	if !ok {
		return
	}
	place = place.WithZ(-2)

	createLabConsoles(ctx, m, place, "lab", 3, "Workstation", "Download Encryption Routines")

	target, ok := targetClosestLabEntrance(ctx, place, 2, m)
	if ok {
		revealRoad(ctx, ctx.Player.Pos, target)
	}
}

func startCreateIceLabConsole(ctx *Context, m *Mission) {
	// Pick an ice lab with spaces on z = -4.
	loc := ctx.Player.Pos.WithZ(-4)
	place, ok := ctx.World.FindClosest(overmap.Query{Origin: loc, Type: "ice_lab"})
	if !ok {
		slog.Warn("could not find ice lab")
		return
	}

	createLabConsoles(ctx, m, place, "ice_lab", 3, "Durable Storage Archive", "Download Archives")

	target, ok := targetClosestLabEntrance(ctx, place, 2, m)
	if ok {
		revealRoad(ctx, ctx.Player.Pos, target)
	}
}

func startRevealLabTrainDepot(ctx *Context, m *Mission) {
	// Tunnels are at z = -4.
	loc := ctx.Player.Pos.WithZ(-4)
	place, ok := ctx.World.FindClosest(overmap.Query{Origin: loc, Type: "lab_train_depot"})
	if !ok {
		slog.Warn("could not find lab train depot")
		return
	}

	sess, err := tinymap.Open(ctx.Tiles, place)
	if err != nil {
		slog.Warn("opening local area", "loc", place, "error", err)
		return
	}
	defer closeSession(sess)

	var comp *tinymap.Console
	for y := 0; y < coords.BlockY && comp == nil; y++ {
		for x := 0; x < coords.BlockX && comp == nil; x++ {
			comp = sess.ComputerAt(coords.Tile{X: x, Y: y})
		}
	}
	if comp == nil {
		slog.Warn("could not find a computer in the lab train depot, mission will fail")
		return
	}

	comp.MissionID = m.UID
	comp.AddOption("Download Routing Software", tinymap.ActionDownloadSoftware, 0)

	target, ok := targetClosestLabEntrance(ctx, place, 2, m)
	if ok {
		revealRoad(ctx, ctx.Player.Pos, target)
	}
}
