// Package ecs provides ECS adapters for eventstream's scene events.
//
// The primary adapter is [NewDonburiStore], which forwards every translated
// scene event (click, hover, key, wheel, file change) into a [Donburi] world
// as a typed event. Subscribe to [SceneEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	manager.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
