// Package surface mounts the animated starfield into a host container.
//
// A Surface owns everything built for one mount:
//
//   - the scene graph (camera, fog, lights, stars, solids)
//   - the renderer wrapping the container's drawing context
//   - the frame scheduler driving animation and rendering
//   - the viewport adapter following container resizes
//
// Unmount stops the scheduler, unsubscribes from resizes, detaches the
// drawable and then releases star geometry, star material, the shared
// solid geometry, the shared solid material and finally the renderer.
// A frame that is already running when Unmount is called finishes first;
// release happens at its end. Calling Unmount again is a no-op.
//
// Surfaces share no state, so any number can be mounted side by side.
package surface
