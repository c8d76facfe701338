package parameter

// Perspective camera defaults
// The camera sits on +Z looking at the origin; hearts are placed on planes at the layer z values
const (
	// CameraFovDeg is the vertical field of view in degrees
	CameraFovDeg = 25.0

	// CameraDistance is the camera z position (distance to the z=0 plane)
	CameraDistance = 24.0

	// CameraNear and CameraFar are the clip planes
	CameraNear = 0.1
	CameraFar  = 1000.0
)
