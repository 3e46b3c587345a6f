// Package locomotion implements a kinematic character controller.
//
// A [Controller] turns raw directional input and the contact normals
// reported by a physics world into a per-step velocity for a single body:
//
//   - contacts are classified as ground, steep or ignored ([Classify])
//   - groundedness is re-established for one step by a downward ray probe
//     ([Controller.SnapToGround]) or by promoting a cluster of steep contacts
//     ([Controller.CheckSteepContacts])
//   - velocity moves toward the desired velocity inside the contact plane
//     ([Controller.AdjustVelocity])
//   - jumps follow the contact, steep or world-up direction and are limited
//     by [Settings.MaxAirJumps] ([Controller.Jump])
//
// # Usage
//
//	ctrl := locomotion.New(body, caster, locomotion.DefaultSettings())
//	// between steps, once per contact reported by the physics world:
//	ctrl.ReportContact(normal)
//	// once per fixed tick:
//	vel, blend := ctrl.Step(locomotion.Input{Move: mgl64.Vec2{1, 0}}, dt)
//
// # Thread Safety
//
// A Controller owns its state exclusively and is NOT safe for concurrent
// use. Contact reports and steps must be serialized by the caller.
package locomotion
