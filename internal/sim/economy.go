package sim

// simulateBuyPhase resolves purchases once, on the Buy to Active
// transition. Providers may request a specific item with a buy intent;
// everyone else walks the deterministic threshold ladder.
func (r *Round) simulateBuyPhase() {
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive {
			continue
		}
		if in := r.intents.Intent(r, id); in.Kind == IntentBuy && in.Item != "" {
			r.buyRequested(p, in.Item)
			continue
		}
		r.buyForPlayer(p)
	}
}

// buyRequested honors an explicit buy request. Unknown or unaffordable
// items fall back to the ladder so a bad request never leaves a player
// unarmed.
func (r *Round) buyRequested(p *Player, item string) {
	switch item {
	case "light":
		r.purchaseShield(p, ShieldLight)
	case "heavy":
		r.purchaseShield(p, ShieldHeavy)
	default:
		w := GetWeapon(item)
		if w.Name != item || w.Cost > p.Credits {
			r.buyForPlayer(p)
			return
		}
		r.purchaseWeapon(p, item)
		r.buyShield(p)
	}
}

// buyForPlayer walks the ladder: full buy, half buy, eco pistol, save.
// Players with a carried-over primary keep it and only fill in armor.
func (r *Round) buyForPlayer(p *Player) {
	eco := r.cfg.Economy

	if p.Weapon.Type != WeaponPistol {
		// Carried a primary over from last round; just re-armor.
		r.buyShield(p)
		return
	}

	switch {
	case p.Credits >= eco.FullBuyFloor:
		// Precise players take the Vandal, spray-oriented ones the Phantom.
		name := "Phantom"
		if p.AimRating >= 75 {
			name = "Vandal"
		}
		r.purchaseWeapon(p, name)
		r.purchaseShield(p, ShieldHeavy)

	case p.Credits >= eco.HalfBuyFloor:
		name := "Spectre"
		if p.AimRating >= 70 {
			name = "Bulldog"
		}
		r.purchaseWeapon(p, name)
		r.purchaseShield(p, ShieldLight)

	case p.Credits >= eco.EcoBuyFloor:
		name := "Ghost"
		if p.AimRating >= 75 {
			name = "Sheriff"
		}
		r.purchaseWeapon(p, name)

	default:
		// Save round: keep the Classic.
	}
}

func (r *Round) buyShield(p *Player) {
	eco := r.cfg.Economy
	switch {
	case p.Shield == ShieldHeavy:
	case p.Credits >= eco.FullBuyFloor-2900:
		r.purchaseShield(p, ShieldHeavy)
	case p.Credits >= ShieldLight.Cost():
		r.purchaseShield(p, ShieldLight)
	}
}

func (r *Round) purchaseWeapon(p *Player, name string) {
	w := GetWeapon(name)
	if w.Cost > p.Credits {
		return
	}
	p.Credits -= w.Cost
	p.Weapon = w
	r.emit(EventTypePurchase, p.ID, PurchasePayload{PlayerID: p.ID, Item: w.Name, Cost: w.Cost})
}

func (r *Round) purchaseShield(p *Player, s ShieldType) {
	if s.Cost() > p.Credits || p.Shield == s {
		return
	}
	p.Credits -= s.Cost()
	p.Shield = s
	p.Armor = s.Armor()
	r.emit(EventTypePurchase, p.ID, PurchasePayload{PlayerID: p.ID, Item: s.String() + " shield", Cost: s.Cost()})
}

// CarryoverState is what one player takes into the next round, plus the
// credits the round awarded them.
type CarryoverState struct {
	Alive        bool
	Weapon       string
	Shield       ShieldType
	RoundCredits int
	Kills        int
	Plants       int
	Defuses      int
}

// Carryover computes the end-of-round economy transfer once, from the
// configured win/loss/plant/defuse/kill constants. Loss bonuses already
// include any streak scaling supplied by the match.
func (r *Round) Carryover(lossBonusAttackers, lossBonusDefenders int) map[string]CarryoverState {
	eco := r.cfg.Economy
	out := make(map[string]CarryoverState, len(r.Players))

	for _, id := range r.playerOrder {
		p := r.Players[id]
		state := CarryoverState{
			Alive:   p.Alive,
			Kills:   p.roundKills,
			Plants:  p.roundPlants,
			Defuses: p.roundDefuses,
		}
		if p.Alive {
			state.Weapon = p.Weapon.Name
			state.Shield = p.Shield
		}

		won := (r.Winner == WinnerAttackers && p.Team == TeamAttackers) ||
			(r.Winner == WinnerDefenders && p.Team == TeamDefenders)
		if won {
			state.RoundCredits = eco.WinCredits
		} else if p.Team == TeamAttackers {
			state.RoundCredits = lossBonusAttackers
		} else {
			state.RoundCredits = lossBonusDefenders
		}

		if p.roundPlants > 0 {
			state.RoundCredits += eco.PlantCredits
		}
		if p.roundDefuses > 0 {
			state.RoundCredits += eco.DefuseCredits
		}
		state.RoundCredits += p.roundKills * eco.KillCredits

		out[id] = state
	}

	return out
}
