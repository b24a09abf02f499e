package entity

// Origin procedencia de un registro: creado solo en el dispositivo o replicado en el remoto.
type Origin string

const (
	OriginUnknown Origin = ""
	OriginRemote  Origin = "remote"
	OriginLocal   Origin = "local"
)

// remoteIDMinLen los IDs generados por el remoto son UUID (36 caracteres); los locales son cortos ("u1").
const remoteIDMinLen = 20

// ClassifyID clasifica por la forma del identificador. Heurística: si el formato de IDs
// cambia, clasifica mal. Solo se usa para datos legados sin Origin explícito.
func ClassifyID(id string) Origin {
	if len(id) > remoteIDMinLen {
		return OriginRemote
	}
	return OriginLocal
}

// ResolveOrigin prefiere la procedencia registrada al crear el registro y cae en la heurística si falta.
func ResolveOrigin(explicit Origin, id string) Origin {
	switch explicit {
	case OriginRemote, OriginLocal:
		return explicit
	}
	return ClassifyID(id)
}
