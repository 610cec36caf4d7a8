// Package arbor is a retained-mode 2D scene graph with a composable action
// (tween) engine.
//
// Arbor owns the node tree, hierarchical transforms, opacity propagation,
// draw ordering, and an action scheduler that mutates node properties over
// time. Drawing is delegated to a [Renderer]; the ebitenrender and termrender
// packages provide window and terminal backends.
//
// # Quick start
//
//	scene := arbor.NewScene()
//	box := arbor.NewRect("box", 40, 40, arbor.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	box.SetPosition(100, 50)
//	_ = scene.Add(box)
//
//	box.RunAction(arbor.Sequence(
//		arbor.MoveBy(1, 100, 0),
//		arbor.FadeOut(0.5),
//	))
//
//	// once per frame:
//	scene.Update(dt)
//	scene.Draw(renderer)
//
// # Scene graph
//
// Every element is a [Node]. A node has at most one parent; attaching a node
// that already has a parent fails with [ErrHasParent], and attaching a node
// below itself fails with [ErrCycle]. The parent holds a reference to each
// child. A node detached from a scene whose reference count drops to zero is
// disposed at the end of the tick unless it was re-attached or retained with
// [Node.Retain].
//
// Children are visited in ascending [Node.Order]. Children with a negative
// order are updated and drawn before their parent, the rest after.
//
// # Transforms
//
// Each node composes scale, skew, and rotation about its pivot, then its
// position. Children compose against the parent's initial matrix; the node's
// own content is drawn with the final matrix, which places the pivot point at
// the node's position. Angles are in degrees. Position-fixed nodes ignore
// their ancestors and the scene [Camera].
//
// # Actions
//
// Leaf actions ([MoveBy], [ScaleTo], [FadeIn], [Delay], [CallFunc], ...)
// are combined with [Sequence], [Spawn], [Repeat], and [Loop]. Every action
// can be cloned and reversed. Gradual actions accept an easing curve from
// [gween]'s ease package through [WithEase].
//
// Configuration can be loaded from TOML with [LoadConfig]. Scene and action
// events can be forwarded to an ECS through [EntityStore] (see the
// arbor/ecs module for a [Donburi] adapter).
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package arbor
