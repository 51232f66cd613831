package scene

import (
	"fmt"
	"maps"
	"slices"
)

// KeyedScene is a scene that names its own key. It is used with FromList,
// the older construction form where no explicit key map is supplied.
type KeyedScene interface {
	Scene
	SceneKey() Key
}

// Source is the initial scene set handed to New. Use FromMap or FromList.
type Source interface {
	entries() ([]entry, Key, error)
}

type entry struct {
	key   Key
	scene Scene
}

type mapSource struct {
	scenes map[Key]Scene
	start  Key
}

// FromMap builds a source from an explicit key to scene mapping and the key
// of the starting scene.
func FromMap(scenes map[Key]Scene, start Key) Source {
	return mapSource{scenes: scenes, start: start}
}

func (s mapSource) entries() ([]entry, Key, error) {
	out := make([]entry, 0, len(s.scenes))
	for _, k := range slices.Sorted(maps.Keys(s.scenes)) {
		out = append(out, entry{key: k, scene: s.scenes[k]})
	}
	return out, s.start, nil
}

type listSource []KeyedScene

// FromList builds a source from scenes that report their own keys. The
// first scene is the starting scene.
func FromList(scenes ...KeyedScene) Source {
	return listSource(scenes)
}

func (s listSource) entries() ([]entry, Key, error) {
	if len(s) == 0 {
		return nil, NoScene, nil
	}
	out := make([]entry, 0, len(s))
	for i, sc := range s {
		if sc == nil {
			return nil, NoScene, fmt.Errorf("scene at index %d is nil", i)
		}
		out = append(out, entry{key: sc.SceneKey(), scene: sc})
	}
	return out, out[0].key, nil
}
