package viewstate

// Apply es la función de transición: pura, sin I/O y sin panics.
// Cada concern tiene su propio reducer; una acción desconocida deja
// todos los sub-estados como estaban.
func Apply(s State, a Action) State {
	if a == nil {
		return s
	}

	next := s
	next.Draft = reduceDraft(s.Draft, a)
	next.Pets = reducePets(s.Pets, a)
	next.Breeds = reduceBreeds(s.Breeds, a)
	next.UI = reduceUI(s.UI, a)
	return next
}

func reduceDraft(d DraftPet, a Action) DraftPet {
	in, ok := a.(SetInput)
	if !ok {
		return d
	}
	switch in.Field {
	case FieldName:
		d.Name = in.Value
	case FieldBreed:
		d.Breed = in.Value
	case FieldAge:
		d.Age = in.Value
	}
	return d
}

func reducePets(p PetsState, a Action) PetsState {
	switch act := a.(type) {
	case SetPets:
		p.Items = clonePets(act.Pets)
	case AppendPet:
		items := make([]Pet, 0, len(p.Items)+1)
		items = append(items, p.Items...)
		p.Items = append(items, act.Pet)
	case MergePets:
		p.Items = mergePets(p.Items, act.Pets)
	case ReconcilePet:
		p.Items = reconcilePet(p.Items, act)
	case SetActivePet:
		p.Active = act.Index
	}
	return p
}

func reduceBreeds(b []string, a Action) []string {
	act, ok := a.(SetBreeds)
	if !ok {
		return b
	}
	out := make([]string, len(act.Breeds))
	copy(out, act.Breeds)
	return out
}

func reduceUI(u UIState, a Action) UIState {
	if _, ok := a.(ShowCreatePet); ok {
		u.ShowCreatePet = true
	}
	return u
}

func clonePets(in []Pet) []Pet {
	out := make([]Pet, len(in))
	copy(out, in)
	return out
}

// mergePets: lo remoto reemplaza a lo confirmado; los appends locales que el
// listado todavía no trae (pending, failed, o confirmados después del read)
// quedan al final en su orden original.
func mergePets(current, loaded []Pet) []Pet {
	out := make([]Pet, 0, len(loaded)+len(current))
	seen := make(map[string]struct{}, len(loaded))

	for _, p := range loaded {
		if p.Status == "" {
			p.Status = PetStatusConfirmed
		}
		if p.ID != "" {
			seen[p.ID] = struct{}{}
		}
		out = append(out, p)
	}

	for _, p := range current {
		if p.LocalID == "" {
			continue
		}
		if _, ok := seen[p.ID]; ok && p.ID != "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func reconcilePet(items []Pet, act ReconcilePet) []Pet {
	idx := -1
	for i, p := range items {
		if act.LocalID != "" && p.LocalID == act.LocalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items
	}

	// Un listado que corrió durante el write ya trajo la fila del server:
	// el append local sobra.
	if act.ID != "" {
		for i, p := range items {
			if i != idx && p.ID == act.ID {
				out := make([]Pet, 0, len(items)-1)
				out = append(out, items[:idx]...)
				return append(out, items[idx+1:]...)
			}
		}
	}

	out := clonePets(items)
	out[idx].Status = act.Status
	if act.ID != "" {
		out[idx].ID = act.ID
	}
	return out
}
