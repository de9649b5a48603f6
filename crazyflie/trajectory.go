package crazyflie

import "github.com/AkihikoHONDA/crazyflie-ros/crtp"

// A trajectory segment is 33 floats on the wire: the duration followed by
// four degree-7 polynomials (x, y, z, yaw, 8 coefficients each). The
// payload does not fit one packet, so it is cut into six fragments.
const trajectorySegmentFloats = 33

var trajectoryFragmentSizes = []int{6, 6, 6, 6, 6, 3}

func trajectorySegmentValues(duration float32, polyX, polyY, polyZ, polyYaw [8]float32) [trajectorySegmentFloats]float32 {
	var values [trajectorySegmentFloats]float32
	values[0] = duration
	copy(values[1:9], polyX[:])
	copy(values[9:17], polyY[:])
	copy(values[17:25], polyZ[:])
	copy(values[25:33], polyYaw[:])
	return values
}

// trajectoryFragments cuts a segment into its six fragment requests at
// offsets 0,6,12,18,24,30 with sizes 6,6,6,6,6,3.
func trajectoryFragments(id uint8, values [trajectorySegmentFloats]float32) []*TrajectoryRequestAddFragment {
	fragments := make([]*TrajectoryRequestAddFragment, 0, len(trajectoryFragmentSizes))
	offset := 0
	for _, size := range trajectoryFragmentSizes {
		fragments = append(fragments, &TrajectoryRequestAddFragment{
			ID:     id,
			Offset: uint8(offset),
			Values: values[offset : offset+size],
		})
		offset += size
	}
	return fragments
}

// TrajectoryReset clears the stored trajectory on the vehicle and restarts
// segment id assignment from 0.
func (cf *Crazyflie) TrajectoryReset() error {
	cf.startBatchRequest()
	cf.addRequest(&TrajectoryRequestReset{}, 1)
	if err := cf.handleRequests(); err != nil {
		return err
	}
	cf.lastTrajectoryID = 0
	return nil
}

// TrajectoryAdd uploads one polynomial segment as a single batch of six
// fragments. Fragments are matched by (command, id, offset), so acks may
// arrive in any order; all six must finish. Returns the segment id.
func (cf *Crazyflie) TrajectoryAdd(duration float32, polyX, polyY, polyZ, polyYaw [8]float32) (uint8, error) {
	id := cf.lastTrajectoryID
	values := trajectorySegmentValues(duration, polyX, polyY, polyZ, polyYaw)

	cf.startBatchRequest()
	for _, fragment := range trajectoryFragments(id, values) {
		cf.addRequest(fragment, 3)
	}
	if err := cf.handleRequests(); err != nil {
		return 0, err
	}

	cf.lastTrajectoryID++
	return id, nil
}

// TrajectoryHover sends a single fire-and-forget hover setpoint; it is the
// lightweight manual-steering path next to the batched segment upload.
func (cf *Crazyflie) TrajectoryHover(x, y, z, yaw float32) error {
	return cf.sendPacketHandleAck(crtp.PacketBytes(&TrajectoryRequestHover{x, y, z, yaw}))
}
