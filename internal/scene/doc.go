// Package scene holds the renderable world of a cosmos surface.
//
// The package defines the value types the renderer and animator share:
//
//   - [Scene]: background, fog, camera, lights and an ordered object list
//   - [Camera]: perspective camera with a cached projection matrix
//   - [Points] and [Mesh]: renderables whose geometry and material are
//     reference-counted [resource.Handle] values
//   - [Vec3], [Euler], [Mat4]: the small amount of linear algebra the
//     pipeline needs
//
// A Scene is append-only while it is being built. Once [Scene.Seal] is
// called no object or light can be added; only transforms change.
//
// # Thread Safety
//
// Scene values are NOT thread-safe. All mutation happens on the frame
// callback of the surface that owns the scene.
package scene
