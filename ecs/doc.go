// Package ecs provides ECS adapters for arbor's scene event system.
//
// The primary adapter is [NewDonburiStore], which bridges arbor scene events
// (node enter/exit, action started/finished/stopped) into a [Donburi] world
// as typed events. Subscribe to [SceneEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
